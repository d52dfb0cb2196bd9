package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

func TestContextExpand(t *testing.T) {
	ctx := Context{
		"$Entity":       "Invoice",
		"$EntityPlural": "Invoices",
		"$Feature":      "Billing",
	}

	t.Run("longest first", func(t *testing.T) {
		assert.Equal(t, "Invoices/InvoiceReader.cs", ctx.Expand("$EntityPlural/$EntityReader.cs"))
	})

	t.Run("unknown placeholders pass through", func(t *testing.T) {
		assert.Equal(t, "Invoice $Unknown", ctx.Expand("$Entity $Unknown"))
	})

	t.Run("case sensitive", func(t *testing.T) {
		assert.Equal(t, "$entity", ctx.Expand("$entity"))
	})

	t.Run("values are not re-expanded", func(t *testing.T) {
		c := Context{"$A": "$B", "$B": "b"}
		assert.Equal(t, "$B b", c.Expand("$A $B"))
	})

	t.Run("clone", func(t *testing.T) {
		c := ctx.Clone()
		c["$Entity"] = "Changed"
		assert.Equal(t, "Invoice", ctx["$Entity"])
		assert.Equal(t, []string{"$Entity", "$EntityPlural", "$Feature"}, ctx.Keys())
	})
}

func TestUnresolved(t *testing.T) {
	assert.Equal(t, []string{"$Bar", "$Foo"}, Unresolved("a $Foo b $Bar $Foo"))
	assert.Empty(t, Unresolved(`var s = $"{x}"; cost $5`))
}

func entityTestColumns() []field.Column {
	return []field.Column{
		{Name: "total", Type: field.TypeDecimal, NativeType: "decimal", Precision: 18, Scale: 2},
		{Name: "invoice_id", Type: field.TypeInt32, NativeType: "int"},
		{Name: "customer_name", Type: field.TypeString, NativeType: "nvarchar", MaxLength: 80, Nullable: true},
	}
}

func TestEntityContext(t *testing.T) {
	cfg := MustNewConfig(WithPlatform("Contoso"))
	e := invoiceEntity()
	ec, err := newEntityContext(cfg, e, entityTestColumns())
	require.NoError(t, err)

	base := ec.base
	want := map[string]string{
		"$Platform":          "Contoso",
		"$Component":         "Billing",
		"$ComponentType":     "Application",
		"$Feature":           "Invoices",
		"$Entity":            "Invoice",
		"$EntityPlural":      "Invoices",
		"$EntityCamel":       "invoice",
		"$EntityCamelPlural": "invoices",
		"$EntitySnake":       "invoice",
		"$EntityKebab":       "invoice",
		"$EntityTitle":       "Invoice",
		"$EntitySentence":    "Invoice",
		"$Namespace":         "Contoso.Billing",
		"$NamespacePath":     "Contoso/Billing/Invoices",
		"$CollectionPath":    "billing/invoices/invoices",
		"$CollectionSlug":    "invoices",
		"$CollectionKey":     "{invoice}",
		"$StorageSchema":     "billing",
		"$StorageTable":      "invoice",
		"$StorageStructure":  "Table",
		"$StorageKey":        "invoice_id",
		"$KeyParameters":     "int invoice",
		"$KeyArguments":      "invoice",
		"$KeyEquality":       "x.InvoiceId == invoice",
		"$KeyType":           "int",
		"$KeyProperties":     "public int InvoiceId { get; set; }",
	}
	for k, v := range want {
		assert.Equal(t, v, base[k], k)
	}
	assert.Equal(t,
		"public string CustomerName { get; set; }\npublic int InvoiceId { get; set; }\npublic decimal Total { get; set; }",
		base["$Properties"])
	assert.Equal(t,
		"builder.Property(e => e.CustomerName).HasColumnName(\"customer_name\").HasColumnType(\"nvarchar(80)\");\n"+
			"builder.Property(e => e.InvoiceId).HasColumnName(\"invoice_id\").HasColumnType(\"int\").IsRequired();\n"+
			"builder.Property(e => e.Total).HasColumnName(\"total\").HasColumnType(\"decimal(18,2)\").IsRequired();",
		base["$ColumnMappings"])

	t.Run("per kind", func(t *testing.T) {
		ctx := ec.forKind(KindController)
		assert.Equal(t, "[FromRoute] int invoice", ctx["$KeyParameters"])
		assert.Equal(t, "public int InvoiceId { get; set; }", ctx["$Properties"])

		ctx = ec.forKind(KindModifyCommand)
		assert.Equal(t, "int invoice", ctx["$KeyParameters"])
		assert.Equal(t, "modify.InvoiceId", ctx["$KeySourceArguments"])
		assert.Equal(t, "entity.InvoiceId = modify.InvoiceId", ctx["$KeyAssignments"])

		ctx = ec.forKind(KindWriter)
		assert.Equal(t, "public string CustomerName { get; set; }\npublic decimal Total { get; set; }", ctx["$Properties"])

		ctx = ec.forKind(KindPolicy)
		assert.Empty(t, ctx["$Properties"])
		assert.Equal(t, "invoice", ctx["$KeySourceArguments"])

		assert.Equal(t, "public int InvoiceId { get; set; }", ec.base["$KeyProperties"])
		assert.Equal(t, "int invoice", ec.base["$KeyParameters"], "base context must not change")
	})

	t.Run("metadata overrides", func(t *testing.T) {
		e := invoiceEntity()
		e.Name = "InvoiceCategory"
		e.CollectionSlug = "categories"
		e.CollectionKey = "{id:int}"
		ec, err := newEntityContext(cfg, e, entityTestColumns())
		require.NoError(t, err)
		assert.Equal(t, "InvoiceCategories", ec.base["$EntityPlural"])
		assert.Equal(t, "invoiceCategories", ec.base["$EntityCamelPlural"])
		assert.Equal(t, "invoice_category", ec.base["$EntitySnake"])
		assert.Equal(t, "invoice-category", ec.base["$EntityKebab"])
		assert.Equal(t, "Invoice Category", ec.base["$EntityTitle"])
		assert.Equal(t, "Invoice category", ec.base["$EntitySentence"])
		assert.Equal(t, "billing/invoices/categories", ec.base["$CollectionPath"])
		assert.Equal(t, "{id:int}", ec.base["$CollectionKey"])
	})

	t.Run("unsupported column", func(t *testing.T) {
		cols := append(entityTestColumns(), field.Column{Name: "shape", NativeType: "geometry"})
		_, err := newEntityContext(cfg, e, cols)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("deterministic", func(t *testing.T) {
		cols := entityTestColumns()
		reversed := []field.Column{cols[2], cols[1], cols[0]}
		other, err := newEntityContext(cfg, e, reversed)
		require.NoError(t, err)
		for _, k := range AllKinds {
			if !k.Aggregate {
				assert.Equal(t, ec.forKind(k), other.forKind(k), k.Name)
			}
		}
	})
}

func TestAggregateContext(t *testing.T) {
	cfg := MustNewConfig(WithPlatform("Contoso"))
	line := invoiceEntity()
	line.Name = "InvoiceLine"
	payment := invoiceEntity()
	payment.Feature, payment.Name = "Payments", "Payment"
	other := invoiceEntity()
	other.Component = "Sales"

	x := graph.New([]schema.Entity{payment, line, invoiceEntity(), other})
	ctx := aggregateContext(cfg, x, "Billing")

	assert.Equal(t, "3", ctx["$EntityCount"])
	assert.Equal(t, "Invoices,Payments", ctx["$Features"])
	assert.Equal(t, "Contoso.Billing", ctx["$Namespace"])
	assert.Equal(t, "Application", ctx["$ComponentType"])
	assert.Equal(t,
		"public DbSet<Invoice> Invoices { get; set; }\n"+
			"public DbSet<InvoiceLine> InvoiceLines { get; set; }\n"+
			"public DbSet<Payment> Payments { get; set; }",
		ctx["$EntitySets"])
	assert.Equal(t, "Contoso.Billing.Data/BillingContext.cs", ctx.Expand(KindContext.Path))
}
