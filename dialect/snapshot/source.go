package snapshot

import (
	"context"
	"slices"
	"strings"

	"github.com/syssam/layergen/compiler/gen"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

var _ gen.Source = (*Source)(nil)

// Source serves a snapshot as the database collaborator. It is read-only and
// safe for concurrent use.
type Source struct {
	entities []schema.Entity
	tables   map[string][]field.Column
}

// Source returns the snapshot as a generator source.
func (s *Snapshot) Source() *Source {
	src := &Source{
		entities: slices.Clone(s.Entities),
		tables:   make(map[string][]field.Column, len(s.Tables)),
	}
	for _, t := range s.Tables {
		src.tables[tableKey(t.Schema, t.Name)] = t.Columns
	}
	return src
}

func tableKey(schemaName, table string) string {
	return strings.ToLower(schemaName) + "." + strings.ToLower(table)
}

// ListEntities returns the captured entities, optionally filtered by
// storage structure.
func (s *Source) ListEntities(_ context.Context, filter ...schema.StorageStructure) ([]schema.Entity, error) {
	out := slices.Clone(s.entities)
	if len(filter) > 0 {
		out = slices.DeleteFunc(out, func(e schema.Entity) bool {
			return !slices.Contains(filter, e.Structure)
		})
	}
	return out, nil
}

// Columns returns the captured columns of a table.
func (s *Source) Columns(_ context.Context, schemaName, table string) ([]field.Column, error) {
	cols, ok := s.tables[tableKey(schemaName, table)]
	if !ok {
		return nil, schema.NewMetadataError(qualify(schemaName, table), "", "table not present in snapshot")
	}
	return slices.Clone(cols), nil
}

// NativeTypeName returns the captured storage type of a column.
func (s *Source) NativeTypeName(ctx context.Context, table, column string) (string, error) {
	c, err := s.lookup(ctx, table, column)
	return c.NativeType, err
}

// ColumnPrecision returns the captured numeric precision of a column.
func (s *Source) ColumnPrecision(ctx context.Context, table, column string) (int, error) {
	c, err := s.lookup(ctx, table, column)
	return c.Precision, err
}

// ColumnScale returns the captured numeric scale of a column.
func (s *Source) ColumnScale(ctx context.Context, table, column string) (int, error) {
	c, err := s.lookup(ctx, table, column)
	return c.Scale, err
}

func (s *Source) lookup(ctx context.Context, table, column string) (field.Column, error) {
	schemaName, name := "", table
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		schemaName, name = table[:i], table[i+1:]
	}
	cols, err := s.Columns(ctx, schemaName, name)
	if err != nil {
		return field.Column{}, err
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, column) {
			return c, nil
		}
	}
	return field.Column{}, schema.NewMetadataError(table, column, "column not present in snapshot")
}

func qualify(schemaName, table string) string {
	if schemaName == "" {
		return table
	}
	return schemaName + "." + table
}
