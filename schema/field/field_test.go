package field_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/layergen/schema/field"
)

func TestType(t *testing.T) {
	assert.Equal(t, "uuid", field.TypeUUID.String())
	assert.Equal(t, "time_offset", field.TypeTimeOffset.String())
	assert.Equal(t, "invalid", field.Type(200).String())
	assert.True(t, field.TypeBytes.Valid())
	assert.False(t, field.TypeInvalid.Valid())
	assert.Equal(t, field.TypeInt64, field.ParseType(" Int64 "))
	assert.Equal(t, field.TypeInvalid, field.ParseType("money"))

	var typ field.Type
	require.NoError(t, typ.UnmarshalText([]byte("decimal")))
	assert.Equal(t, field.TypeDecimal, typ)
	b, err := typ.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "decimal", string(b))
}

func columns() []field.Column {
	return []field.Column{
		{Name: "total", Type: field.TypeDecimal},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "Name", Type: field.TypeString},
		{Name: "id", Type: field.TypeUUID},
		{Name: "active", Type: field.TypeBool},
		{Name: "name", Type: field.TypeString},
		{Name: "quantity", Type: field.TypeInt32},
		{Name: "payload", Type: field.TypeBytes},
		{Name: "amount", Type: field.TypeDecimal},
		{Name: "updated_at", Type: field.TypeTimeOffset},
		{Name: "ratio", Type: field.TypeFloat64},
		{Name: "version", Type: field.TypeInt64},
	}
}

func names(cols []field.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func TestTableSort(t *testing.T) {
	want := []string{
		"id", "active", "Name", "name", "quantity", "version",
		"amount", "total", "ratio", "updated_at", "created_at", "payload",
	}

	t.Run("orders by priority then name", func(t *testing.T) {
		sorted, err := field.Default.Sort(columns())
		require.NoError(t, err)
		assert.Equal(t, want, names(sorted))
	})

	t.Run("permutation independent", func(t *testing.T) {
		cols := columns()
		perms := [][]int{
			{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
			{5, 2, 0, 7, 9, 1, 11, 3, 6, 10, 4, 8},
			{2, 5, 1, 3, 0, 4, 6, 8, 7, 10, 9, 11},
		}
		for _, p := range perms {
			in := make([]field.Column, len(p))
			for i, j := range p {
				in[i] = cols[j]
			}
			sorted, err := field.Default.Sort(in)
			require.NoError(t, err)
			assert.Equal(t, want, names(sorted))
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		cols := columns()
		_, err := field.Default.Sort(cols)
		require.NoError(t, err)
		assert.Equal(t, names(columns()), names(cols))
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := field.Default.Sort([]field.Column{
			{Name: "id", Type: field.TypeUUID},
			{Name: "shape", Type: field.TypeInvalid, NativeType: "geometry"},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, field.ErrUnsupportedType))
		assert.True(t, field.IsTypeError(err))
		assert.Contains(t, err.Error(), "shape")
		assert.Contains(t, err.Error(), "geometry")
	})

	t.Run("empty", func(t *testing.T) {
		sorted, err := field.Default.Sort(nil)
		require.NoError(t, err)
		assert.Empty(t, sorted)
	})
}

func TestTableDeclaration(t *testing.T) {
	tests := []struct {
		col  field.Column
		want string
	}{
		{field.Column{Name: "quantity", Type: field.TypeInt32, Nullable: true}, "public int? Quantity { get; set; }"},
		{field.Column{Name: "quantity", Type: field.TypeInt32}, "public int Quantity { get; set; }"},
		{field.Column{Name: "customer_name", Type: field.TypeString, Nullable: true}, "public string CustomerName { get; set; }"},
		{field.Column{Name: "photo", Type: field.TypeBytes, Nullable: true}, "public byte[] Photo { get; set; }"},
		{field.Column{Name: "invoice_id", Type: field.TypeUUID}, "public Guid InvoiceId { get; set; }"},
		{field.Column{Name: "issued_at", Type: field.TypeTimeOffset, Nullable: true}, "public DateTimeOffset? IssuedAt { get; set; }"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := field.Default.Declaration(tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := field.Default.Declaration(field.Column{Name: "x"})
	assert.ErrorIs(t, err, field.ErrUnsupportedType)
}

func TestTableDeclarations(t *testing.T) {
	got, err := field.Default.Declarations([]field.Column{
		{Name: "total", Type: field.TypeDecimal},
		{Name: "invoice_id", Type: field.TypeInt32},
	})
	require.NoError(t, err)
	assert.Equal(t, "public int InvoiceId { get; set; }\npublic decimal Total { get; set; }", got)
}

func TestNewTable(t *testing.T) {
	tbl := field.NewTable(
		field.Entry{Type: field.TypeString, Alias: "string"},
		field.Entry{Type: field.TypeInt32, Alias: "int32"},
		field.Entry{Type: field.TypeString, Alias: "ignored"},
		field.Entry{Type: field.TypeInvalid, Alias: "never"},
	)
	assert.Equal(t, []field.Type{field.TypeString, field.TypeInt32}, tbl.Types())
	alias, ok := tbl.Alias(field.TypeString)
	assert.True(t, ok)
	assert.Equal(t, "string", alias)
	_, ok = tbl.Priority(field.TypeUUID)
	assert.False(t, ok)

	_, err := tbl.ColumnAlias(field.Column{Name: "id", Type: field.TypeUUID})
	assert.ErrorIs(t, err, field.ErrUnsupportedType)
}
