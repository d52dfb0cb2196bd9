package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/layergen/naming"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// KeyField holds the tokens derived once for a key column. Every view of a
// Projector is built from the same KeyField slice, so a column always yields
// the same property and variable in all of them.
type KeyField struct {
	// Column is the live column descriptor.
	Column field.Column
	// Property is the PascalCase property name ("InvoiceId").
	Property string
	// Name is the variable name before the reserved-word guard ("event").
	Name string
	// Variable is the guarded variable name ("@event").
	Variable string
	// Alias is the target-language type name ("int").
	Alias string
}

// idSuffixes are stripped from variable names, longest first.
var idSuffixes = []string{"Identifier", "Id"}

type projectorConfig struct {
	strip    bool
	types    *field.Table
	keywords *naming.Keywords
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*projectorConfig)

// WithSuffixStripping strips a trailing "Identifier" or "Id" from variable
// names ("InvoiceId" -> "invoice"). A name is never stripped to empty.
func WithSuffixStripping(strip bool) ProjectorOption {
	return func(c *projectorConfig) { c.strip = strip }
}

// WithTypeTable sets the table used to resolve type aliases.
func WithTypeTable(t *field.Table) ProjectorOption {
	return func(c *projectorConfig) {
		if t != nil {
			c.types = t
		}
	}
}

// WithReservedWords sets the reserved-word table guarding variable names.
func WithReservedWords(k *naming.Keywords) ProjectorOption {
	return func(c *projectorConfig) {
		if k != nil {
			c.keywords = k
		}
	}
}

// Projector derives the parameter list, argument lists, equality expression
// and assignment block of an entity key.
type Projector struct {
	entity schema.Entity
	fields []KeyField
}

// NewProjector resolves the declared key columns of e against the live
// columns. Names are matched case-insensitively; a declared column missing
// from cols fails with a MetadataError.
func NewProjector(e schema.Entity, cols []field.Column, opts ...ProjectorOption) (*Projector, error) {
	cfg := projectorConfig{types: field.Default, keywords: naming.CSharp}
	for _, opt := range opts {
		opt(&cfg)
	}
	keys := e.KeyColumns()
	if len(keys) == 0 {
		return nil, schema.NewMetadataError(e.String(), "storage_key", "storage key declares no columns")
	}
	byName := make(map[string]field.Column, len(cols))
	for _, c := range cols {
		byName[strings.ToLower(c.Name)] = c
	}
	var (
		fields = make([]KeyField, 0, len(keys))
		seen   = make(map[string]struct{}, len(keys))
	)
	for _, k := range keys {
		col, ok := byName[strings.ToLower(k)]
		if !ok {
			return nil, schema.NewMetadataError(e.String(), k,
				fmt.Sprintf("key column not found in %s", e.QualifiedTable()))
		}
		if contains(seen, strings.ToLower(k)) {
			return nil, schema.NewMetadataError(e.String(), "storage_key",
				fmt.Sprintf("key column %q declared more than once", k))
		}
		seen[strings.ToLower(k)] = struct{}{}
		alias, err := cfg.types.ColumnAlias(col)
		if err != nil {
			return nil, err
		}
		prop := naming.Pascal(col.Name)
		fields = append(fields, KeyField{
			Column:   col,
			Property: prop,
			Name:     naming.Decapitalize(prop),
			Alias:    alias,
		})
	}
	if cfg.strip {
		stripNames(fields)
	}
	names := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if contains(names, f.Name) {
			return nil, schema.NewMetadataError(e.String(), f.Column.Name,
				fmt.Sprintf("key variable %q derived from more than one column", f.Name))
		}
		names[f.Name] = struct{}{}
		fields[i].Variable = cfg.keywords.Guard(f.Name)
	}
	return &Projector{entity: e, fields: fields}, nil
}

// stripNames drops the Id/Identifier suffix of every key name whose stripped
// form is not also the name, stripped or not, of another key.
func stripNames(fields []KeyField) {
	stripped := make([]string, len(fields))
	taken := make(map[string]int, 2*len(fields))
	for i, f := range fields {
		stripped[i] = naming.Decapitalize(stripSuffix(f.Property))
		taken[stripped[i]]++
		if stripped[i] != f.Name {
			taken[f.Name]++
		}
	}
	for i := range fields {
		if s := stripped[i]; s != fields[i].Name && taken[s] == 1 {
			fields[i].Name = s
		}
	}
}

func stripSuffix(s string) string {
	for _, suffix := range idSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return s[:len(s)-len(suffix)]
		}
	}
	return s
}

func contains(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}

// Entity returns the projected entity.
func (p *Projector) Entity() schema.Entity { return p.entity }

// Fields returns a copy of the key fields in declared key order.
func (p *Projector) Fields() []KeyField {
	return append([]KeyField(nil), p.fields...)
}

// Parameters returns the key parameter list ("int invoice, int line").
func (p *Projector) Parameters() string {
	return p.join(", ", func(f KeyField) string {
		return f.Alias + " " + f.Variable
	})
}

// RouteParameters returns the key parameter list bound to route values
// ("[FromRoute] int invoice").
func (p *Projector) RouteParameters() string {
	return p.join(", ", func(f KeyField) string {
		return "[FromRoute] " + f.Alias + " " + f.Variable
	})
}

// Arguments returns the key argument list. With an empty source the bare
// variables are returned ("invoice, line"); otherwise the properties of the
// source object ("command.InvoiceId, command.LineNo").
func (p *Projector) Arguments(source string) string {
	if source == "" {
		return p.join(", ", func(f KeyField) string { return f.Variable })
	}
	return p.join(", ", func(f KeyField) string { return source + "." + f.Property })
}

// Equality returns the key equality expression
// ("x.InvoiceId == invoice && x.LineNo == line").
func (p *Projector) Equality(target string) string {
	return p.join(" && ", func(f KeyField) string {
		return target + "." + f.Property + " == " + f.Variable
	})
}

// Assignments returns one key assignment per line
// ("entity.InvoiceId = command.InvoiceId").
func (p *Projector) Assignments(target, source string) string {
	return p.join("\n", func(f KeyField) string {
		return target + "." + f.Property + " = " + source + "." + f.Property
	})
}

// KeyType returns the alias of a single-column key, or a tuple of the aliases
// of a composite key ("(int, long)").
func (p *Projector) KeyType() string {
	if len(p.fields) == 1 {
		return p.fields[0].Alias
	}
	return "(" + p.join(", ", func(f KeyField) string { return f.Alias }) + ")"
}

// RouteTemplate returns the route segments of the key ("{invoice}/{line}").
func (p *Projector) RouteTemplate() string {
	return p.join("/", func(f KeyField) string { return "{" + f.Name + "}" })
}

// IsKey reports whether the column belongs to the key.
func (p *Projector) IsKey(column string) bool {
	for _, f := range p.fields {
		if strings.EqualFold(f.Column.Name, column) {
			return true
		}
	}
	return false
}

func (p *Projector) join(sep string, f func(KeyField) string) string {
	parts := make([]string, len(p.fields))
	for i, kf := range p.fields {
		parts[i] = f(kf)
	}
	return strings.Join(parts, sep)
}
