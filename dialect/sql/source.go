package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"go.uber.org/zap"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/dialect"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

var _ gen.Source = (*Source)(nil)

// DefaultMetadataTable is the table listing the generated entities.
const DefaultMetadataTable = "entity_metadata"

// metadataColumns are the columns read from the metadata table, in scan order.
var metadataColumns = []string{
	"component_type",
	"component_name",
	"component_feature",
	"entity_name",
	"collection_slug",
	"collection_key",
	"storage_structure",
	"storage_schema",
	"storage_table",
	"storage_key",
	"storage_table_rename",
}

// Source reads entity metadata and live column descriptors from a database.
// It implements gen.Source and is safe for concurrent use.
type Source struct {
	drv   *Driver
	table string
	log   *zap.Logger

	inspector func() (migrate.Driver, error)

	mu    sync.Mutex
	cache map[string][]field.Column
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithMetadataTable sets the metadata table, optionally schema-qualified.
func WithMetadataTable(table string) SourceOption {
	return func(s *Source) { s.table = table }
}

// WithSourceLogger sets the logger of the source.
func WithSourceLogger(l *zap.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSource returns a source reading from drv.
func NewSource(drv *Driver, opts ...SourceOption) (*Source, error) {
	s := &Source{
		drv:   drv,
		table: DefaultMetadataTable,
		log:   zap.NewNop(),
		cache: make(map[string][]field.Column),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !isValidIdentifier(s.table) {
		return nil, fmt.Errorf("dialect/sql: invalid metadata table name %q", s.table)
	}
	s.inspector = sync.OnceValues(func() (migrate.Driver, error) {
		switch drv.Dialect() {
		case dialect.Postgres:
			return postgres.Open(drv)
		case dialect.MySQL:
			return mysql.Open(drv)
		case dialect.SQLite:
			return sqlite.Open(drv)
		}
		return nil, fmt.Errorf("dialect/sql: no schema inspector for %s", drv.Dialect())
	})
	return s, nil
}

// Driver returns the driver of the source.
func (s *Source) Driver() *Driver { return s.drv }

// ListEntities reads the metadata table ordered by component, feature and
// entity name. A non-empty filter keeps only the given storage structures.
func (s *Source) ListEntities(ctx context.Context, filter ...schema.StorageStructure) ([]schema.Entity, error) {
	var (
		b    strings.Builder
		args []any
	)
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(metadataColumns, ", "), s.table)
	if len(filter) > 0 {
		fmt.Fprintf(&b, " WHERE LOWER(storage_structure) IN (%s)", s.drv.placeholders(len(filter)))
		for _, f := range filter {
			args = append(args, strings.ToLower(f.String()))
		}
	}
	b.WriteString(" ORDER BY component_name, component_feature, entity_name")

	rows, err := s.drv.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query metadata table %s: %w", s.table, err)
	}
	defer rows.Close()

	var entities []schema.Entity
	for rows.Next() {
		var (
			e                              schema.Entity
			ctype, structure               string
			slug, key, storeSchema, rename sql.NullString
		)
		if err := rows.Scan(
			&ctype, &e.Component, &e.Feature, &e.Name,
			&slug, &key, &structure, &storeSchema,
			&e.StorageTable, &e.StorageKey, &rename,
		); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		e.CollectionSlug, e.CollectionKey = slug.String, key.String
		e.StorageSchema, e.StorageRename = storeSchema.String, rename.String
		if e.ComponentType, err = schema.ParseComponentType(ctype); err != nil {
			return nil, withEntity(err, e)
		}
		if e.Structure, err = schema.ParseStorageStructure(structure); err != nil {
			return nil, withEntity(err, e)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata rows: %w", err)
	}
	s.log.Debug("metadata loaded", zap.String("table", s.table), zap.Int("entities", len(entities)))
	return entities, nil
}

// withEntity names the entity of a metadata parse error.
func withEntity(err error, e schema.Entity) error {
	var me *schema.MetadataError
	if errors.As(err, &me) {
		me.Entity = e.String()
	}
	return err
}

// Columns returns the columns of a table, view or (SQL Server) procedure
// result set, in their storage order.
func (s *Source) Columns(ctx context.Context, schemaName, table string) ([]field.Column, error) {
	if !isValidIdentifier(table) || (schemaName != "" && !isValidIdentifier(schemaName)) {
		return nil, fmt.Errorf("dialect/sql: invalid table name %q", qualify(schemaName, table))
	}
	var (
		cols []field.Column
		err  error
	)
	if s.drv.Dialect() == dialect.SQLServer {
		cols, err = s.sqlServerColumns(ctx, schemaName, table)
	} else {
		cols, err = s.inspectColumns(ctx, schemaName, table)
	}
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, schema.NewMetadataError(qualify(schemaName, table), "", "table, view or procedure not found")
	}
	s.log.Debug("columns fetched", zap.String("table", qualify(schemaName, table)), zap.Int("columns", len(cols)))
	return cols, nil
}

// inspectColumns reads table columns through the atlas inspector and falls
// back to an empty result probe for views and other relations it does not
// inspect.
func (s *Source) inspectColumns(ctx context.Context, schemaName, table string) ([]field.Column, error) {
	insp, err := s.inspector()
	if err != nil {
		return nil, fmt.Errorf("open schema inspector: %w", err)
	}
	name := schemaName
	if s.drv.Dialect() == dialect.SQLite {
		name = "main"
	}
	sch, err := insp.InspectSchema(ctx, name, &atlas.InspectOptions{Tables: []string{table}})
	switch {
	case atlas.IsNotExistError(err):
	case err != nil:
		return nil, fmt.Errorf("inspect %s: %w", qualify(schemaName, table), err)
	default:
		if t, ok := sch.Table(table); ok {
			return s.fromAtlas(t.Columns), nil
		}
	}
	if s.drv.Dialect() == dialect.SQLite {
		schemaName = ""
	}
	return s.probeColumns(ctx, schemaName, table)
}

// fromAtlas converts inspected columns.
func (s *Source) fromAtlas(in []*atlas.Column) []field.Column {
	cols := make([]field.Column, 0, len(in))
	for i, c := range in {
		typ, base := classify(s.drv.Dialect(), c.Type.Raw)
		col := field.Column{
			Name:       c.Name,
			Type:       typ,
			Nullable:   c.Type.Null,
			NativeType: base,
			Position:   i + 1,
		}
		switch t := c.Type.Type.(type) {
		case *atlas.StringType:
			col.MaxLength = t.Size
		case *atlas.BinaryType:
			if t.Size != nil {
				col.MaxLength = *t.Size
			}
		case *atlas.DecimalType:
			col.Precision, col.Scale = t.Precision, t.Scale
		}
		cols = append(cols, col)
	}
	return cols
}

// probeColumns describes the result set of a query returning no rows. A
// relation missing from the catalog yields no columns.
func (s *Source) probeColumns(ctx context.Context, schemaName, table string) ([]field.Column, error) {
	exists, err := s.relationExists(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	rows, err := s.drv.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", qualify(schemaName, table)))
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", qualify(schemaName, table), err)
	}
	defer rows.Close()
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", qualify(schemaName, table), err)
	}
	cols := make([]field.Column, 0, len(types))
	for i, ct := range types {
		typ, base := classify(s.drv.Dialect(), ct.DatabaseTypeName())
		col := field.Column{Name: ct.Name(), Type: typ, NativeType: base, Position: i + 1}
		col.Nullable, _ = ct.Nullable()
		if n, ok := ct.Length(); ok && (typ == field.TypeString || typ == field.TypeBytes) && n > 0 && n < 1<<31 {
			col.MaxLength = int(n)
		}
		if p, sc, ok := ct.DecimalSize(); ok && typ == field.TypeDecimal {
			col.Precision, col.Scale = int(p), int(sc)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// relationExists reports whether the catalog lists a table or view.
func (s *Source) relationExists(ctx context.Context, schemaName, table string) (bool, error) {
	var (
		query string
		args  = []any{table}
	)
	switch s.drv.Dialect() {
	case dialect.SQLite:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ? COLLATE NOCASE"
	case dialect.MySQL:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE LOWER(table_name) = LOWER(?) AND table_schema = "
		if schemaName == "" {
			query += "DATABASE()"
		} else {
			query += "?"
			args = append(args, schemaName)
		}
	default:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE LOWER(table_name) = LOWER($1) AND table_schema = "
		if schemaName == "" {
			query += "current_schema()"
		} else {
			query += "$2"
			args = append(args, schemaName)
		}
	}
	rows, err := s.drv.QueryContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("look up %s: %w", qualify(schemaName, table), err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, fmt.Errorf("look up %s: %w", qualify(schemaName, table), err)
		}
	}
	return n > 0, rows.Err()
}

const (
	sqlServerColumnsQuery = `
	SELECT
	    c.name AS column_name,
	    tp.name AS data_type,
	    c.is_nullable,
	    c.max_length,
	    c.precision,
	    c.scale,
	    c.column_id
	FROM sys.columns c
	INNER JOIN sys.types tp ON c.user_type_id = tp.user_type_id
	WHERE c.object_id = OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table))
	ORDER BY c.column_id
	`

	sqlServerResultSetQuery = `
	SELECT
	    name,
	    system_type_name,
	    is_nullable,
	    max_length,
	    precision,
	    scale,
	    column_ordinal
	FROM sys.dm_exec_describe_first_result_set_for_object(
	    OBJECT_ID(QUOTENAME(@schema) + N'.' + QUOTENAME(@table)), 0)
	WHERE is_hidden = 0
	ORDER BY column_ordinal
	`
)

// sqlServerColumns reads table and view columns from sys.columns, and the
// first result set of stored procedures.
func (s *Source) sqlServerColumns(ctx context.Context, schemaName, table string) ([]field.Column, error) {
	if schemaName == "" {
		schemaName = "dbo"
	}
	for _, query := range []string{sqlServerColumnsQuery, sqlServerResultSetQuery} {
		cols, err := s.scanSQLServer(ctx, query, schemaName, table)
		if err != nil || len(cols) > 0 {
			return cols, err
		}
	}
	return nil, nil
}

func (s *Source) scanSQLServer(ctx context.Context, query, schemaName, table string) ([]field.Column, error) {
	rows, err := s.drv.QueryContext(ctx, query,
		sql.Named("schema", schemaName),
		sql.Named("table", table),
	)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []field.Column
	for rows.Next() {
		var (
			name                      sql.NullString
			native                    string
			nullable                  bool
			maxLength, prec, scale, n int
		)
		if err := rows.Scan(&name, &native, &nullable, &maxLength, &prec, &scale, &n); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		typ, base := classify(dialect.SQLServer, native)
		col := field.Column{
			Name:       name.String,
			Type:       typ,
			Nullable:   nullable,
			NativeType: base,
			Position:   n,
		}
		switch typ {
		case field.TypeString, field.TypeBytes:
			col.MaxLength = sqlServerLength(base, maxLength)
		case field.TypeDecimal:
			col.Precision, col.Scale = prec, scale
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	return cols, nil
}

// sqlServerLength converts sys.columns.max_length (bytes, -1 for max) to
// characters.
func sqlServerLength(base string, n int) int {
	switch {
	case n < 0:
		return 0
	case base == "nchar" || base == "nvarchar":
		return n / 2
	}
	return n
}

// NativeTypeName returns the storage type of a column. The table may be
// qualified ("schema.table").
func (s *Source) NativeTypeName(ctx context.Context, table, column string) (string, error) {
	c, err := s.lookup(ctx, table, column)
	return c.NativeType, err
}

// ColumnPrecision returns the numeric precision of a column.
func (s *Source) ColumnPrecision(ctx context.Context, table, column string) (int, error) {
	c, err := s.lookup(ctx, table, column)
	return c.Precision, err
}

// ColumnScale returns the numeric scale of a column.
func (s *Source) ColumnScale(ctx context.Context, table, column string) (int, error) {
	c, err := s.lookup(ctx, table, column)
	return c.Scale, err
}

// lookup finds a column, caching the column set of each table.
func (s *Source) lookup(ctx context.Context, table, column string) (field.Column, error) {
	s.mu.Lock()
	cols, ok := s.cache[table]
	s.mu.Unlock()
	if !ok {
		schemaName, name := splitTable(table)
		var err error
		if cols, err = s.Columns(ctx, schemaName, name); err != nil {
			return field.Column{}, err
		}
		s.mu.Lock()
		s.cache[table] = cols
		s.mu.Unlock()
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, column) {
			return c, nil
		}
	}
	return field.Column{}, schema.NewMetadataError(table, column, "column not found")
}

// splitTable splits "schema.table" at the last dot.
func splitTable(table string) (string, string) {
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

func qualify(schemaName, table string) string {
	if schemaName == "" {
		return table
	}
	return schemaName + "." + table
}
