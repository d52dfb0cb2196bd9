package field

// Column describes a column of a table or view as reported by the database.
// Descriptors are fetched once per entity and never shared across entities.
type Column struct {
	Name      string `msgpack:"name" json:"name"`
	Type      Type   `msgpack:"type" json:"type"`
	Nullable  bool   `msgpack:"nullable" json:"nullable"`
	MaxLength int    `msgpack:"max_length,omitempty" json:"max_length,omitempty"`
	Precision int    `msgpack:"precision,omitempty" json:"precision,omitempty"`
	Scale     int    `msgpack:"scale,omitempty" json:"scale,omitempty"`
	// NativeType is the type name as reported by the database (e.g. "nvarchar").
	NativeType string `msgpack:"native_type,omitempty" json:"native_type,omitempty"`
	// Position is the 1-based ordinal of the column in its table.
	Position int `msgpack:"position,omitempty" json:"position,omitempty"`
}
