package field

import "strings"

// Type is the semantic type of a column, independent of the database that
// reports it and of the language the artifacts are generated in.
type Type uint8

// List of semantic types. The declaration order is the default ordering
// priority of property declarations.
const (
	TypeInvalid Type = iota
	TypeUUID
	TypeBool
	TypeString
	TypeInt32
	TypeInt64
	TypeDecimal
	TypeFloat64
	TypeTimeOffset
	TypeTime
	TypeBytes
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:    "invalid",
	TypeUUID:       "uuid",
	TypeBool:       "bool",
	TypeString:     "string",
	TypeInt32:      "int32",
	TypeInt64:      "int64",
	TypeDecimal:    "decimal",
	TypeFloat64:    "float64",
	TypeTimeOffset: "time_offset",
	TypeTime:       "time",
	TypeBytes:      "bytes",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is known and not TypeInvalid.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// ParseType returns the Type for its string representation.
func ParseType(s string) Type {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TypeUUID; t < endTypes; t++ {
		if typeNames[t] == s {
			return t
		}
	}
	return TypeInvalid
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	*t = ParseType(string(b))
	return nil
}
