package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/layergen/schema/field"
)

// Column is the descriptor of a live column.
type Column = field.Column

// ComponentType classifies the component an entity belongs to.
type ComponentType uint8

// List of component types.
const (
	Application ComponentType = iota + 1
	Plugin
	Utility
)

var componentTypeNames = map[ComponentType]string{
	Application: "Application",
	Plugin:      "Plugin",
	Utility:     "Utility",
}

// String returns the name of the component type.
func (t ComponentType) String() string {
	if s, ok := componentTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ComponentType(%d)", t)
}

// ParseComponentType parses a component type case-insensitively.
func ParseComponentType(s string) (ComponentType, error) {
	for t, name := range componentTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return 0, NewMetadataError("", "component_type", fmt.Sprintf("unrecognized component type %q", s))
}

// StorageStructure is the kind of object backing an entity.
type StorageStructure uint8

// List of storage structures. Projection is a virtual, read-oriented entity.
const (
	Table StorageStructure = iota + 1
	View
	Procedure
	Projection
)

var storageStructureNames = map[StorageStructure]string{
	Table:      "Table",
	View:       "View",
	Procedure:  "Procedure",
	Projection: "Projection",
}

// String returns the name of the storage structure.
func (s StorageStructure) String() string {
	if name, ok := storageStructureNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StorageStructure(%d)", s)
}

// ParseStorageStructure parses a storage structure case-insensitively.
// Unrecognized values fail with a MetadataError.
func ParseStorageStructure(s string) (StorageStructure, error) {
	for st, name := range storageStructureNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return 0, NewMetadataError("", "storage_structure", fmt.Sprintf("unrecognized storage structure %q", s))
}

// MarshalText implements encoding.TextMarshaler. The zero value encodes as
// an empty string.
func (t ComponentType) MarshalText() ([]byte, error) {
	if t == 0 {
		return []byte{}, nil
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ComponentType) UnmarshalText(b []byte) (err error) {
	if len(b) == 0 {
		*t = 0
		return nil
	}
	*t, err = ParseComponentType(string(b))
	return err
}

// MarshalText implements encoding.TextMarshaler. The zero value encodes as
// an empty string.
func (s StorageStructure) MarshalText() ([]byte, error) {
	if s == 0 {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StorageStructure) UnmarshalText(b []byte) (err error) {
	if len(b) == 0 {
		*s = 0
		return nil
	}
	*s, err = ParseStorageStructure(string(b))
	return err
}

// Entity is one generated business object, as described by a row of the
// metadata table. Entities are built once per run and never mutated.
type Entity struct {
	ComponentType  ComponentType    `msgpack:"component_type"`
	Component      string           `msgpack:"component"`
	Feature        string           `msgpack:"feature"`
	Name           string           `msgpack:"name"`
	CollectionSlug string           `msgpack:"collection_slug"`
	CollectionKey  string           `msgpack:"collection_key"`
	Structure      StorageStructure `msgpack:"structure"`
	StorageSchema  string           `msgpack:"storage_schema"`
	StorageTable   string           `msgpack:"storage_table"`
	StorageKey     string           `msgpack:"storage_key"`
	StorageRename  string           `msgpack:"storage_rename,omitempty"`
}

// KeyColumns returns the ordered key columns declared by StorageKey.
// Surrounding spaces are trimmed and empty segments dropped.
func (e Entity) KeyColumns() []string {
	var cols []string
	for _, c := range strings.Split(e.StorageKey, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Writable reports whether write artifacts (commands, writers) apply to the
// entity. Only tables are writable.
func (e Entity) Writable() bool {
	return e.Structure == Table
}

// QualifiedTable returns "schema.table", or the bare table without a schema.
func (e Entity) QualifiedTable() string {
	if e.StorageSchema == "" {
		return e.StorageTable
	}
	return e.StorageSchema + "." + e.StorageTable
}

// String returns the lookup key of the entity.
func (e Entity) String() string {
	return e.Component + "/" + e.Feature + "/" + e.Name
}

// Validate checks the metadata invariants that do not need the live schema.
func (e Entity) Validate() error {
	switch {
	case e.Component == "":
		return NewMetadataError(e.String(), "component_name", "component name is empty")
	case e.Feature == "":
		return NewMetadataError(e.String(), "component_feature", "component feature is empty")
	case e.Name == "":
		return NewMetadataError(e.String(), "entity_name", "entity name is empty")
	case e.StorageTable == "":
		return NewMetadataError(e.String(), "storage_table", "storage table is empty")
	case len(e.KeyColumns()) == 0:
		return NewMetadataError(e.String(), "storage_key", "storage key declares no columns")
	case storageStructureNames[e.Structure] == "":
		return NewMetadataError(e.String(), "storage_structure", fmt.Sprintf("invalid storage structure %d", e.Structure))
	}
	return nil
}
