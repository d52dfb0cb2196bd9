package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/layergen/schema"
)

// Key identifies an entity by component, feature and entity name.
type Key struct {
	Component string
	Feature   string
	Entity    string
}

// String returns the key in "component/feature/entity" form.
func (k Key) String() string {
	return k.Component + "/" + k.Feature + "/" + k.Entity
}

// Status is the outcome of a lookup.
type Status uint8

// Lookup outcomes.
const (
	Found Status = iota
	NotFound
	Ambiguous
)

// String returns the name of the lookup status.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// Result is the tagged outcome of a lookup. Entity is set only when Status
// is Found; Count holds the number of matches.
type Result struct {
	Key    Key
	Status Status
	Count  int
	Entity schema.Entity
}

// Err returns the error describing a failed lookup, or nil.
func (r Result) Err() error {
	switch r.Status {
	case NotFound:
		return &NotFoundError{Key: r.Key}
	case Ambiguous:
		return &AmbiguousError{Key: r.Key, Count: r.Count}
	}
	return nil
}

// Index is a read-only view over the ordered entity collection of a run.
// It is immutable after New and safe for concurrent use.
type Index struct {
	entities []schema.Entity
	byKey    map[Key][]int
}

// New builds an index over a copy of entities. The input order is kept.
func New(entities []schema.Entity) *Index {
	x := &Index{
		entities: slices.Clone(entities),
		byKey:    make(map[Key][]int, len(entities)),
	}
	for i, e := range x.entities {
		k := Key{Component: e.Component, Feature: e.Feature, Entity: e.Name}
		x.byKey[k] = append(x.byKey[k], i)
	}
	return x
}

// Len returns the number of entities in the index.
func (x *Index) Len() int { return len(x.entities) }

// All returns a copy of all entities in their original order.
func (x *Index) All() []schema.Entity {
	return slices.Clone(x.entities)
}

// Components returns the distinct component names, alphabetically.
func (x *Index) Components() []string {
	return x.distinct(func(e schema.Entity) (string, bool) {
		return e.Component, true
	})
}

// Features returns the distinct feature names of a component, alphabetically.
// A blank or unknown component yields an empty list.
func (x *Index) Features(component string) []string {
	if strings.TrimSpace(component) == "" {
		return nil
	}
	return x.distinct(func(e schema.Entity) (string, bool) {
		return e.Feature, e.Component == component
	})
}

// Entities returns the distinct entity names of a component feature,
// alphabetically. A blank or unknown scope yields an empty list.
func (x *Index) Entities(component, feature string) []string {
	if strings.TrimSpace(component) == "" || strings.TrimSpace(feature) == "" {
		return nil
	}
	return x.distinct(func(e schema.Entity) (string, bool) {
		return e.Name, e.Component == component && e.Feature == feature
	})
}

// InComponent returns the entities of a component in their original order.
func (x *Index) InComponent(component string) []schema.Entity {
	var out []schema.Entity
	for _, e := range x.entities {
		if e.Component == component {
			out = append(out, e)
		}
	}
	return out
}

// InFeature returns the entities of a component feature in their original order.
func (x *Index) InFeature(component, feature string) []schema.Entity {
	var out []schema.Entity
	for _, e := range x.entities {
		if e.Component == component && e.Feature == feature {
			out = append(out, e)
		}
	}
	return out
}

// Lookup resolves an entity by its key without failing.
func (x *Index) Lookup(component, feature, entity string) Result {
	k := Key{Component: component, Feature: feature, Entity: entity}
	idx := x.byKey[k]
	switch len(idx) {
	case 0:
		return Result{Key: k, Status: NotFound}
	case 1:
		return Result{Key: k, Status: Found, Count: 1, Entity: x.entities[idx[0]]}
	default:
		return Result{Key: k, Status: Ambiguous, Count: len(idx)}
	}
}

// Get returns the unique entity matching the key. It fails with a
// NotFoundError for zero matches and an AmbiguousError for several.
func (x *Index) Get(component, feature, entity string) (schema.Entity, error) {
	r := x.Lookup(component, feature, entity)
	return r.Entity, r.Err()
}

// TryGet is like Get but reports success instead of failing.
func (x *Index) TryGet(component, feature, entity string) (schema.Entity, bool) {
	r := x.Lookup(component, feature, entity)
	return r.Entity, r.Status == Found
}

// MigrationSuggestions returns the storage changes that would align the
// entities of a component feature with the naming conventions: tables are
// expected in the schema named after the lower-cased component, and a
// declared rename target replaces the current table name. Suggestions are
// de-duplicated and sorted.
func (x *Index) MigrationSuggestions(component, feature string) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
		want = strings.ToLower(component)
	)
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, e := range x.InFeature(component, feature) {
		if !strings.EqualFold(e.StorageSchema, want) {
			add(fmt.Sprintf("move table %s to schema %s", e.QualifiedTable(), want))
		}
		if e.StorageRename != "" && e.StorageRename != e.StorageTable {
			add(fmt.Sprintf("rename table %s to %s", e.QualifiedTable(), e.StorageRename))
		}
	}
	slices.Sort(out)
	return out
}

func (x *Index) distinct(f func(schema.Entity) (string, bool)) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, e := range x.entities {
		v, ok := f(e)
		if !ok {
			continue
		}
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
