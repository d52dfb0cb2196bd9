package gen

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/layergen/graph"
	"github.com/syssam/layergen/naming"
	"github.com/syssam/layergen/schema"
	"github.com/syssam/layergen/schema/field"
)

// Context maps placeholder names ("$Entity") to the literal text substituted
// into templates and path patterns.
type Context map[string]string

// Placeholders of a substitution context.
const (
	phPlatform           = "$Platform"
	phComponent          = "$Component"
	phComponentType      = "$ComponentType"
	phFeature            = "$Feature"
	phEntity             = "$Entity"
	phEntityPlural       = "$EntityPlural"
	phEntityCamel        = "$EntityCamel"
	phEntityCamelPlural  = "$EntityCamelPlural"
	phEntitySnake        = "$EntitySnake"
	phEntityKebab        = "$EntityKebab"
	phEntityTitle        = "$EntityTitle"
	phEntitySentence     = "$EntitySentence"
	phNamespace          = "$Namespace"
	phNamespacePath      = "$NamespacePath"
	phCollectionPath     = "$CollectionPath"
	phCollectionSlug     = "$CollectionSlug"
	phCollectionKey      = "$CollectionKey"
	phStorageSchema      = "$StorageSchema"
	phStorageTable       = "$StorageTable"
	phStorageStructure   = "$StorageStructure"
	phStorageKey         = "$StorageKey"
	phProperties         = "$Properties"
	phKeyProperties      = "$KeyProperties"
	phColumnMappings     = "$ColumnMappings"
	phKeyParameters      = "$KeyParameters"
	phKeyArguments       = "$KeyArguments"
	phKeySourceArguments = "$KeySourceArguments"
	phKeyEquality        = "$KeyEquality"
	phKeyAssignments     = "$KeyAssignments"
	phKeyType            = "$KeyType"
	phEntitySets         = "$EntitySets"
	phEntityCount        = "$EntityCount"
	phFeatures           = "$Features"
)

// placeholderRe matches placeholder tokens left in rendered text.
var placeholderRe = regexp.MustCompile(`\$[A-Z][A-Za-z0-9]*`)

// Keys returns the placeholder names, sorted.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Clone returns a copy of the context.
func (c Context) Clone() Context {
	return maps.Clone(c)
}

// Expand replaces every placeholder of the context in text. Longer names are
// replaced first, so "$EntityPlural" is never read as "$Entity" + "Plural".
// Placeholders missing from the context are left in place.
func (c Context) Expand(text string) string {
	keys := c.Keys()
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, c[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Unresolved returns the distinct placeholder tokens present in text.
func Unresolved(text string) []string {
	found := placeholderRe.FindAllString(text, -1)
	slices.Sort(found)
	return slices.Compact(found)
}

// entityContext holds everything derived once for an entity. The per-kind
// contexts are cheap variations over base.
type entityContext struct {
	cfg    *Config
	entity schema.Entity
	proj   *Projector
	base   Context
	props  map[Selection]string
}

// newEntityContext derives the names, ordered declarations and key views of
// an entity from its live columns.
func newEntityContext(cfg *Config, e schema.Entity, cols []field.Column) (*entityContext, error) {
	proj, err := NewProjector(e, cols,
		WithSuffixStripping(cfg.StripIDSuffix),
		WithTypeTable(cfg.Types),
		WithReservedWords(cfg.Keywords),
	)
	if err != nil {
		return nil, err
	}
	sorted, err := cfg.Types.Sort(cols)
	if err != nil {
		return nil, err
	}
	var key, nonKey []field.Column
	for _, c := range sorted {
		if proj.IsKey(c.Name) {
			key = append(key, c)
		} else {
			nonKey = append(nonKey, c)
		}
	}
	props := make(map[Selection]string, 4)
	for sel, set := range map[Selection][]field.Column{SelectAll: sorted, SelectKey: key, SelectNonKey: nonKey} {
		if props[sel], err = cfg.Types.Declarations(set); err != nil {
			return nil, err
		}
	}
	props[SelectNone] = ""

	ctx := componentContext(cfg, e.Component, e.ComponentType)
	plural := cfg.Pluralizer.Plural(e.Name)
	slug := e.CollectionSlug
	if slug == "" {
		slug = naming.Kebab(plural)
	}
	collectionKey := e.CollectionKey
	if collectionKey == "" {
		collectionKey = proj.RouteTemplate()
	}
	maps.Copy(ctx, Context{
		phFeature:            e.Feature,
		phEntity:             e.Name,
		phEntityPlural:       plural,
		phEntityCamel:        naming.Camel(e.Name),
		phEntityCamelPlural:  naming.Camel(plural),
		phEntitySnake:        naming.Snake(e.Name),
		phEntityKebab:        naming.Kebab(e.Name),
		phEntityTitle:        naming.Title(e.Name),
		phEntitySentence:     naming.Sentence(e.Name),
		phNamespacePath:      strings.ReplaceAll(ctx[phNamespace], ".", "/") + "/" + e.Feature,
		phCollectionPath:     naming.Kebab(e.Component) + "/" + naming.Kebab(e.Feature) + "/" + slug,
		phCollectionSlug:     slug,
		phCollectionKey:      collectionKey,
		phStorageSchema:      e.StorageSchema,
		phStorageTable:       e.StorageTable,
		phStorageStructure:   e.Structure.String(),
		phStorageKey:         strings.Join(e.KeyColumns(), ","),
		phKeyProperties:      props[SelectKey],
		phColumnMappings:     columnMappings(sorted),
		phKeyParameters:      proj.Parameters(),
		phKeyArguments:       proj.Arguments(""),
		phKeySourceArguments: proj.Arguments(""),
		phKeyEquality:        proj.Equality(cfg.EqualityTarget),
		phKeyAssignments:     "",
		phKeyType:            proj.KeyType(),
		phProperties:         props[SelectAll],
	})
	return &entityContext{cfg: cfg, entity: e, proj: proj, base: ctx, props: props}, nil
}

// forKind returns the context of one artifact kind.
func (ec *entityContext) forKind(k *Kind) Context {
	ctx := ec.base.Clone()
	ctx[phProperties] = ec.props[k.Columns]
	if k.RouteBound {
		ctx[phKeyParameters] = ec.proj.RouteParameters()
	}
	if k.Source != "" {
		ctx[phKeySourceArguments] = ec.proj.Arguments(k.Source)
		ctx[phKeyAssignments] = ec.proj.Assignments(ec.cfg.AssignmentTarget, k.Source)
	}
	return ctx
}

// componentContext returns the placeholders shared by all artifacts of a
// component.
func componentContext(cfg *Config, component string, typ schema.ComponentType) Context {
	ns := component
	if cfg.Platform != "" {
		ns = cfg.Platform + "." + component
	}
	ctypeName := ""
	if typ != 0 {
		ctypeName = typ.String()
	}
	return Context{
		phPlatform:      cfg.Platform,
		phComponent:     component,
		phComponentType: ctypeName,
		phNamespace:     ns,
	}
}

// aggregateContext returns the context of an aggregate kind for a component.
func aggregateContext(cfg *Config, x *graph.Index, component string) Context {
	entities := x.InComponent(component)
	slices.SortStableFunc(entities, func(a, b schema.Entity) int {
		return cmp.Or(cmp.Compare(a.Feature, b.Feature), cmp.Compare(a.Name, b.Name))
	})
	var typ schema.ComponentType
	sets := make([]string, 0, len(entities))
	for _, e := range entities {
		if typ == 0 {
			typ = e.ComponentType
		}
		sets = append(sets, fmt.Sprintf("public DbSet<%s> %s { get; set; }", e.Name, cfg.Pluralizer.Plural(e.Name)))
	}
	ctx := componentContext(cfg, component, typ)
	ctx[phEntitySets] = strings.Join(slices.Compact(sets), "\n")
	ctx[phEntityCount] = strconv.Itoa(len(entities))
	ctx[phFeatures] = strings.Join(x.Features(component), ",")
	return ctx
}

// columnMappings returns one ORM mapping statement per column.
func columnMappings(cols []field.Column) string {
	lines := make([]string, 0, len(cols))
	for _, c := range cols {
		var b strings.Builder
		fmt.Fprintf(&b, "builder.Property(e => e.%s).HasColumnName(%q)", naming.Pascal(c.Name), c.Name)
		if t := columnType(c); t != "" {
			fmt.Fprintf(&b, ".HasColumnType(%q)", t)
		}
		if !c.Nullable {
			b.WriteString(".IsRequired()")
		}
		b.WriteString(";")
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// columnType returns the storage type of a column with its size, precision
// and scale ("decimal(18,2)", "nvarchar(50)").
func columnType(c field.Column) string {
	switch {
	case c.NativeType == "":
		return ""
	case c.Type == field.TypeDecimal && c.Precision > 0:
		return fmt.Sprintf("%s(%d,%d)", c.NativeType, c.Precision, c.Scale)
	case (c.Type == field.TypeString || c.Type == field.TypeBytes) && c.MaxLength > 0:
		return fmt.Sprintf("%s(%d)", c.NativeType, c.MaxLength)
	}
	return c.NativeType
}
