package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/layergen/dialect"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

const metadataQuery = "SELECT component_type, component_name, component_feature, entity_name, " +
	"collection_slug, collection_key, storage_structure, storage_schema, storage_table, " +
	"storage_key, storage_table_rename FROM entity_metadata"

func metadataRows() *sqlmock.Rows {
	return sqlmock.NewRows(metadataColumns).
		AddRow("Application", "Billing", "Invoices", "Invoice", nil, nil, "Table", "billing", "invoice", "invoice_id", nil).
		AddRow("application", "Billing", "Invoices", "InvoiceSummary", "summaries", "{id}", "VIEW", "dbo", "invoice_summary", "invoice_id", "invoice_summaries")
}

func TestListEntities(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	src, err := NewSource(OpenDB(dialect.Postgres, db))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(metadataQuery + " ORDER BY component_name, component_feature, entity_name")).
		WillReturnRows(metadataRows())
	entities, err := src.ListEntities(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, schema.Entity{
		ComponentType: schema.Application,
		Component:     "Billing",
		Feature:       "Invoices",
		Name:          "Invoice",
		Structure:     schema.Table,
		StorageSchema: "billing",
		StorageTable:  "invoice",
		StorageKey:    "invoice_id",
	}, entities[0])
	assert.Equal(t, schema.View, entities[1].Structure)
	assert.Equal(t, "summaries", entities[1].CollectionSlug)
	assert.Equal(t, "{id}", entities[1].CollectionKey)
	assert.Equal(t, "invoice_summaries", entities[1].StorageRename)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEntitiesFilter(t *testing.T) {
	tests := []struct {
		dialect, where string
	}{
		{dialect.Postgres, "WHERE LOWER(storage_structure) IN ($1, $2)"},
		{dialect.SQLServer, "WHERE LOWER(storage_structure) IN (@p1, @p2)"},
		{dialect.MySQL, "WHERE LOWER(storage_structure) IN (?, ?)"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			src, err := NewSource(OpenDB(tt.dialect, db), WithMetadataTable("meta.entities"))
			require.NoError(t, err)

			query := strings.Replace(metadataQuery, "entity_metadata", "meta.entities", 1) + " " + tt.where
			mock.ExpectQuery(regexp.QuoteMeta(query)).
				WithArgs("table", "view").
				WillReturnRows(sqlmock.NewRows(metadataColumns))
			entities, err := src.ListEntities(context.Background(), schema.Table, schema.View)
			require.NoError(t, err)
			assert.Empty(t, entities)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListEntitiesErrors(t *testing.T) {
	t.Run("invalid metadata table", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		_, err = NewSource(OpenDB(dialect.Postgres, db), WithMetadataTable("x; DROP TABLE y"))
		require.Error(t, err)
	})

	t.Run("unrecognized storage structure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		src, err := NewSource(OpenDB(dialect.Postgres, db))
		require.NoError(t, err)

		mock.ExpectQuery("SELECT .+ FROM entity_metadata").WillReturnRows(
			sqlmock.NewRows(metadataColumns).
				AddRow("Application", "Billing", "Invoices", "Invoice", nil, nil, "Synonym", "billing", "invoice", "invoice_id", nil))
		_, err = src.ListEntities(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, schema.ErrMetadataInconsistency))
		var me *schema.MetadataError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "Billing/Invoices/Invoice", me.Entity)
	})

	t.Run("empty entity name", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		src, err := NewSource(OpenDB(dialect.Postgres, db))
		require.NoError(t, err)

		mock.ExpectQuery("SELECT .+ FROM entity_metadata").WillReturnRows(
			sqlmock.NewRows(metadataColumns).
				AddRow("Application", "Billing", "Invoices", "", nil, nil, "Table", "billing", "invoice", "invoice_id", nil))
		_, err = src.ListEntities(context.Background())
		require.Error(t, err)
		var me *schema.MetadataError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "entity_name", me.Field)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		src, err := NewSource(OpenDB(dialect.MySQL, db))
		require.NoError(t, err)

		mock.ExpectQuery("SELECT .+ FROM entity_metadata").WillReturnError(errors.New("relation does not exist"))
		_, err = src.ListEntities(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relation does not exist")
	})
}

func TestSQLServerColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	src, err := NewSource(OpenDB(dialect.SQLServer, db))
	require.NoError(t, err)

	columns := []string{"column_name", "data_type", "is_nullable", "max_length", "precision", "scale", "column_id"}
	mock.ExpectQuery("FROM sys.columns c").
		WithArgs(sql.Named("schema", "billing"), sql.Named("table", "invoice")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("invoice_id", "int", false, 4, 10, 0, 1).
			AddRow("customer_name", "nvarchar", true, 160, 0, 0, 2).
			AddRow("notes", "nvarchar", true, -1, 0, 0, 3).
			AddRow("total", "decimal", false, 9, 18, 2, 4).
			AddRow("shape", "geography", true, -1, 0, 0, 5))

	cols, err := src.Columns(context.Background(), "billing", "invoice")
	require.NoError(t, err)
	assert.Equal(t, []field.Column{
		{Name: "invoice_id", Type: field.TypeInt32, NativeType: "int", Position: 1},
		{Name: "customer_name", Type: field.TypeString, Nullable: true, MaxLength: 80, NativeType: "nvarchar", Position: 2},
		{Name: "notes", Type: field.TypeString, Nullable: true, NativeType: "nvarchar", Position: 3},
		{Name: "total", Type: field.TypeDecimal, Precision: 18, Scale: 2, NativeType: "decimal", Position: 4},
		{Name: "shape", Type: field.TypeInvalid, Nullable: true, NativeType: "geography", Position: 5},
	}, cols)
	require.NoError(t, mock.ExpectationsWereMet())

	t.Run("procedure result set", func(t *testing.T) {
		mock.ExpectQuery("FROM sys.columns c").
			WithArgs(sql.Named("schema", "dbo"), sql.Named("table", "invoice_report")).
			WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery("dm_exec_describe_first_result_set_for_object").
			WithArgs(sql.Named("schema", "dbo"), sql.Named("table", "invoice_report")).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("invoice_id", "int", false, 4, 10, 0, 1).
				AddRow("amount", "decimal(19,4)", true, 9, 19, 4, 2))

		cols, err := src.Columns(context.Background(), "", "invoice_report")
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Equal(t, "decimal", cols[1].NativeType)
		assert.Equal(t, 19, cols[1].Precision)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM sys.columns c").WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery("dm_exec_describe_first_result_set_for_object").WillReturnRows(sqlmock.NewRows(columns))
		_, err := src.Columns(context.Background(), "billing", "missing")
		assert.ErrorIs(t, err, schema.ErrMetadataInconsistency)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := src.Columns(context.Background(), "billing", "invoice; --")
		require.Error(t, err)
	})
}

// openSQLite opens a private in-memory database with the billing fixture.
func openSQLite(t *testing.T) *Source {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE entity_metadata (
			component_type text NOT NULL, component_name text NOT NULL, component_feature text NOT NULL,
			entity_name text NOT NULL, collection_slug text, collection_key text,
			storage_structure text NOT NULL, storage_schema text, storage_table text NOT NULL,
			storage_key text NOT NULL, storage_table_rename text)`,
		`CREATE TABLE invoice (
			invoice_id int NOT NULL PRIMARY KEY,
			customer_name varchar(80),
			total decimal(18,2) NOT NULL,
			issued datetime NOT NULL,
			paid boolean NOT NULL,
			attachment blob)`,
		`CREATE VIEW invoice_summary AS SELECT invoice_id, total FROM invoice`,
		`INSERT INTO entity_metadata VALUES
			('Application', 'Billing', 'Invoices', 'InvoiceSummary', NULL, NULL, 'View', 'billing', 'invoice_summary', 'invoice_id', NULL),
			('Application', 'Billing', 'Invoices', 'Invoice', NULL, NULL, 'Table', 'billing', 'invoice', 'invoice_id', NULL)`,
	} {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
	src, err := NewSource(OpenDB(dialect.SQLite, db))
	require.NoError(t, err)
	return src
}

func TestSQLiteSource(t *testing.T) {
	ctx := context.Background()
	src := openSQLite(t)

	entities, err := src.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Invoice", entities[0].Name)
	assert.Equal(t, "InvoiceSummary", entities[1].Name)

	views, err := src.ListEntities(ctx, schema.View)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "InvoiceSummary", views[0].Name)

	t.Run("table columns", func(t *testing.T) {
		cols, err := src.Columns(ctx, "billing", "invoice")
		require.NoError(t, err)
		assert.Equal(t, []field.Column{
			{Name: "invoice_id", Type: field.TypeInt32, NativeType: "int", Position: 1},
			{Name: "customer_name", Type: field.TypeString, Nullable: true, MaxLength: 80, NativeType: "varchar", Position: 2},
			{Name: "total", Type: field.TypeDecimal, Precision: 18, Scale: 2, NativeType: "decimal", Position: 3},
			{Name: "issued", Type: field.TypeTime, NativeType: "datetime", Position: 4},
			{Name: "paid", Type: field.TypeBool, NativeType: "boolean", Position: 5},
			{Name: "attachment", Type: field.TypeBytes, Nullable: true, NativeType: "blob", Position: 6},
		}, cols)
	})

	t.Run("view columns", func(t *testing.T) {
		cols, err := src.Columns(ctx, "billing", "invoice_summary")
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Equal(t, "invoice_id", cols[0].Name)
		assert.Equal(t, field.TypeInt32, cols[0].Type)
		assert.Equal(t, "total", cols[1].Name)
		assert.Equal(t, field.TypeDecimal, cols[1].Type)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := src.Columns(ctx, "billing", "missing")
		assert.ErrorIs(t, err, schema.ErrMetadataInconsistency)
	})

	t.Run("type lookups", func(t *testing.T) {
		native, err := src.NativeTypeName(ctx, "billing.invoice", "TOTAL")
		require.NoError(t, err)
		assert.Equal(t, "decimal", native)
		p, err := src.ColumnPrecision(ctx, "billing.invoice", "total")
		require.NoError(t, err)
		assert.Equal(t, 18, p)
		s, err := src.ColumnScale(ctx, "billing.invoice", "total")
		require.NoError(t, err)
		assert.Equal(t, 2, s)

		_, err = src.NativeTypeName(ctx, "billing.invoice", "nope")
		assert.ErrorIs(t, err, schema.ErrMetadataInconsistency)
	})

	assert.Positive(t, src.Driver().Stats().Queries)
}

func TestProbeColumns(t *testing.T) {
	const (
		lookup = "SELECT COUNT(*) FROM information_schema.tables WHERE LOWER(table_name) = LOWER($1) AND table_schema = $2"
		probe  = "SELECT * FROM billing.invoice_summary WHERE 1 = 0"
	)
	setup := func(t *testing.T) (*Source, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		src, err := NewSource(OpenDB(dialect.Postgres, db))
		require.NoError(t, err)
		return src, mock
	}

	t.Run("view", func(t *testing.T) {
		src, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).WithArgs("invoice_summary", "billing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(probe)).
			WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "total"}))
		cols, err := src.probeColumns(context.Background(), "billing", "invoice_summary")
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Equal(t, "total", cols[1].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing relation", func(t *testing.T) {
		src, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).WithArgs("invoice_summary", "billing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		cols, err := src.probeColumns(context.Background(), "billing", "invoice_summary")
		require.NoError(t, err)
		assert.Empty(t, cols)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("probe failure", func(t *testing.T) {
		src, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).WithArgs("invoice_summary", "billing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(probe)).WillReturnError(sql.ErrConnDone)
		_, err := src.probeColumns(context.Background(), "billing", "invoice_summary")
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, schema.ErrMetadataInconsistency)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lookup failure", func(t *testing.T) {
		src, mock := setup(t)
		mock.ExpectQuery(regexp.QuoteMeta(lookup)).WillReturnError(errors.New("permission denied"))
		_, err := src.probeColumns(context.Background(), "billing", "invoice_summary")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		assert.NotErrorIs(t, err, schema.ErrMetadataInconsistency)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		dialect, native string
		typ             field.Type
		base            string
	}{
		{dialect.SQLServer, "uniqueidentifier", field.TypeUUID, "uniqueidentifier"},
		{dialect.SQLServer, "datetimeoffset", field.TypeTimeOffset, "datetimeoffset"},
		{dialect.SQLServer, "nvarchar(50)", field.TypeString, "nvarchar"},
		{dialect.SQLServer, "hierarchyid", field.TypeInvalid, "hierarchyid"},
		{dialect.Postgres, "timestamp with time zone", field.TypeTimeOffset, "timestamp with time zone"},
		{dialect.Postgres, "character varying", field.TypeString, "character varying"},
		{dialect.Postgres, "bigint", field.TypeInt64, "bigint"},
		{dialect.MySQL, "tinyint(1)", field.TypeBool, "tinyint"},
		{dialect.MySQL, "tinyint(4)", field.TypeInt32, "tinyint"},
		{dialect.MySQL, "int(10) unsigned", field.TypeInt32, "int"},
		{dialect.MySQL, "bigint unsigned zerofill", field.TypeInt64, "bigint"},
		{dialect.SQLite, "INTEGER", field.TypeInt64, "integer"},
		{dialect.SQLite, "DECIMAL(18,2)", field.TypeDecimal, "decimal"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect+"/"+tt.native, func(t *testing.T) {
			typ, base := classify(tt.dialect, tt.native)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.base, base)
		})
	}
}
