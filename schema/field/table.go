package field

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/layergen/naming"
)

// Entry maps a semantic type to its target-language alias.
type Entry struct {
	Type  Type
	Alias string
	// Reference marks aliases that are reference types in the target language
	// and therefore never carry a nullable marker.
	Reference bool
}

// Table is an immutable type-classification table. The position of an entry
// in the table is its ordering priority. A Table is built once and shared by
// pointer; it is safe for concurrent use.
type Table struct {
	priority map[Type]int
	entries  map[Type]Entry
}

// NewTable builds a table from entries given in priority order.
// Later entries for the same type are ignored.
func NewTable(entries ...Entry) *Table {
	t := &Table{
		priority: make(map[Type]int, len(entries)),
		entries:  make(map[Type]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, ok := t.entries[e.Type]; ok || !e.Type.Valid() {
			continue
		}
		t.priority[e.Type] = len(t.priority)
		t.entries[e.Type] = e
	}
	return t
}

// Default is the C# classification table.
var Default = NewTable(
	Entry{Type: TypeUUID, Alias: "Guid"},
	Entry{Type: TypeBool, Alias: "bool"},
	Entry{Type: TypeString, Alias: "string", Reference: true},
	Entry{Type: TypeInt32, Alias: "int"},
	Entry{Type: TypeInt64, Alias: "long"},
	Entry{Type: TypeDecimal, Alias: "decimal"},
	Entry{Type: TypeFloat64, Alias: "double"},
	Entry{Type: TypeTimeOffset, Alias: "DateTimeOffset"},
	Entry{Type: TypeTime, Alias: "DateTime"},
	Entry{Type: TypeBytes, Alias: "byte[]", Reference: true},
)

// Priority returns the ordering priority of typ; lower sorts first.
func (t *Table) Priority(typ Type) (int, bool) {
	p, ok := t.priority[typ]
	return p, ok
}

// Alias returns the target-language type name of typ.
func (t *Table) Alias(typ Type) (string, bool) {
	e, ok := t.entries[typ]
	return e.Alias, ok
}

// ColumnAlias returns the alias of the column type, failing with a TypeError
// for unmapped types.
func (t *Table) ColumnAlias(c Column) (string, error) {
	alias, ok := t.Alias(c.Type)
	if !ok {
		return "", NewTypeError(c.Name, c.Type, c.NativeType)
	}
	return alias, nil
}

// Sort returns a new slice with the columns ordered by type priority, then by
// case-insensitive name, then by exact name. The result does not depend on the
// order of the input. The input slice is not modified.
func (t *Table) Sort(cols []Column) ([]Column, error) {
	for _, c := range cols {
		if _, ok := t.priority[c.Type]; !ok {
			return nil, NewTypeError(c.Name, c.Type, c.NativeType)
		}
	}
	sorted := slices.Clone(cols)
	slices.SortStableFunc(sorted, func(a, b Column) int {
		if d := t.priority[a.Type] - t.priority[b.Type]; d != 0 {
			return d
		}
		if d := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sorted, nil
}

// Declaration returns the property declaration of a column:
//
//	public int? Quantity { get; set; }
//
// The nullable marker is emitted only for nullable columns of value types.
func (t *Table) Declaration(c Column) (string, error) {
	e, ok := t.entries[c.Type]
	if !ok {
		return "", NewTypeError(c.Name, c.Type, c.NativeType)
	}
	alias := e.Alias
	if c.Nullable && !e.Reference {
		alias += "?"
	}
	return fmt.Sprintf("public %s %s { get; set; }", alias, naming.Pascal(c.Name)), nil
}

// Declarations sorts the columns and returns their declarations, one per line.
func (t *Table) Declarations(cols []Column) (string, error) {
	sorted, err := t.Sort(cols)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(sorted))
	for _, c := range sorted {
		d, err := t.Declaration(c)
		if err != nil {
			return "", err
		}
		lines = append(lines, d)
	}
	return strings.Join(lines, "\n"), nil
}

// Types returns the types of the table in priority order.
func (t *Table) Types() []Type {
	types := make([]Type, len(t.priority))
	for typ, p := range t.priority {
		types[p] = typ
	}
	return types
}
