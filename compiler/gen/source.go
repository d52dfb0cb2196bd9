package gen

import (
	"context"

	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Source is the database collaborator providing entity metadata and live
// column descriptors.
type Source interface {
	// ListEntities returns the entities ordered by component, feature and
	// name. A non-empty filter keeps only the given storage structures.
	ListEntities(ctx context.Context, filter ...schema.StorageStructure) ([]schema.Entity, error)
	// Columns returns the columns of a table, view or procedure result.
	Columns(ctx context.Context, schemaName, table string) ([]field.Column, error)
	// NativeTypeName returns the database type of a column. The table may be
	// qualified ("schema.table").
	NativeTypeName(ctx context.Context, table, column string) (string, error)
	// ColumnPrecision returns the numeric precision of a column.
	ColumnPrecision(ctx context.Context, table, column string) (int, error)
	// ColumnScale returns the numeric scale of a column.
	ColumnScale(ctx context.Context, table, column string) (int, error)
}
