package sql

import (
	"strings"

	"github.com/syssam/layergen/dialect"
	"github.com/syssam/layergen/schema/field"
)

// nativeTypes maps the lowercase base type name of each dialect to its
// semantic type. Types missing from a table are unsupported.
var nativeTypes = map[string]map[string]field.Type{
	dialect.SQLServer: {
		"uniqueidentifier": field.TypeUUID,
		"bit":              field.TypeBool,
		"char":             field.TypeString,
		"nchar":            field.TypeString,
		"varchar":          field.TypeString,
		"nvarchar":         field.TypeString,
		"text":             field.TypeString,
		"ntext":            field.TypeString,
		"xml":              field.TypeString,
		"sysname":          field.TypeString,
		"tinyint":          field.TypeInt32,
		"smallint":         field.TypeInt32,
		"int":              field.TypeInt32,
		"bigint":           field.TypeInt64,
		"decimal":          field.TypeDecimal,
		"numeric":          field.TypeDecimal,
		"money":            field.TypeDecimal,
		"smallmoney":       field.TypeDecimal,
		"float":            field.TypeFloat64,
		"real":             field.TypeFloat64,
		"datetimeoffset":   field.TypeTimeOffset,
		"datetime":         field.TypeTime,
		"datetime2":        field.TypeTime,
		"smalldatetime":    field.TypeTime,
		"date":             field.TypeTime,
		"time":             field.TypeTime,
		"binary":           field.TypeBytes,
		"varbinary":        field.TypeBytes,
		"image":            field.TypeBytes,
		"rowversion":       field.TypeBytes,
		"timestamp":        field.TypeBytes,
	},
	dialect.Postgres: {
		"uuid":                        field.TypeUUID,
		"boolean":                     field.TypeBool,
		"bool":                        field.TypeBool,
		"character varying":           field.TypeString,
		"varchar":                     field.TypeString,
		"character":                   field.TypeString,
		"char":                        field.TypeString,
		"bpchar":                      field.TypeString,
		"text":                        field.TypeString,
		"citext":                      field.TypeString,
		"smallint":                    field.TypeInt32,
		"integer":                     field.TypeInt32,
		"int":                         field.TypeInt32,
		"int2":                        field.TypeInt32,
		"int4":                        field.TypeInt32,
		"smallserial":                 field.TypeInt32,
		"serial":                      field.TypeInt32,
		"bigint":                      field.TypeInt64,
		"int8":                        field.TypeInt64,
		"bigserial":                   field.TypeInt64,
		"numeric":                     field.TypeDecimal,
		"decimal":                     field.TypeDecimal,
		"money":                       field.TypeDecimal,
		"real":                        field.TypeFloat64,
		"float4":                      field.TypeFloat64,
		"double precision":            field.TypeFloat64,
		"float8":                      field.TypeFloat64,
		"timestamp with time zone":    field.TypeTimeOffset,
		"timestamptz":                 field.TypeTimeOffset,
		"timestamp without time zone": field.TypeTime,
		"timestamp":                   field.TypeTime,
		"date":                        field.TypeTime,
		"time without time zone":      field.TypeTime,
		"time":                        field.TypeTime,
		"bytea":                       field.TypeBytes,
	},
	dialect.MySQL: {
		"tinyint(1)": field.TypeBool,
		"bool":       field.TypeBool,
		"boolean":    field.TypeBool,
		"bit":        field.TypeBool,
		"char":       field.TypeString,
		"varchar":    field.TypeString,
		"tinytext":   field.TypeString,
		"text":       field.TypeString,
		"mediumtext": field.TypeString,
		"longtext":   field.TypeString,
		"enum":       field.TypeString,
		"tinyint":    field.TypeInt32,
		"smallint":   field.TypeInt32,
		"mediumint":  field.TypeInt32,
		"int":        field.TypeInt32,
		"integer":    field.TypeInt32,
		"bigint":     field.TypeInt64,
		"decimal":    field.TypeDecimal,
		"numeric":    field.TypeDecimal,
		"float":      field.TypeFloat64,
		"double":     field.TypeFloat64,
		"real":       field.TypeFloat64,
		"datetime":   field.TypeTime,
		"timestamp":  field.TypeTime,
		"date":       field.TypeTime,
		"time":       field.TypeTime,
		"binary":     field.TypeBytes,
		"varbinary":  field.TypeBytes,
		"tinyblob":   field.TypeBytes,
		"blob":       field.TypeBytes,
		"mediumblob": field.TypeBytes,
		"longblob":   field.TypeBytes,
	},
	dialect.SQLite: {
		"uuid":      field.TypeUUID,
		"boolean":   field.TypeBool,
		"bool":      field.TypeBool,
		"text":      field.TypeString,
		"varchar":   field.TypeString,
		"nvarchar":  field.TypeString,
		"char":      field.TypeString,
		"nchar":     field.TypeString,
		"clob":      field.TypeString,
		"int":       field.TypeInt32,
		"smallint":  field.TypeInt32,
		"tinyint":   field.TypeInt32,
		"integer":   field.TypeInt64,
		"bigint":    field.TypeInt64,
		"numeric":   field.TypeDecimal,
		"decimal":   field.TypeDecimal,
		"real":      field.TypeFloat64,
		"double":    field.TypeFloat64,
		"float":     field.TypeFloat64,
		"datetime":  field.TypeTime,
		"timestamp": field.TypeTime,
		"date":      field.TypeTime,
		"blob":      field.TypeBytes,
	},
}

// baseType strips size, precision and modifiers from a native type name:
// "nvarchar(50)" → "nvarchar", "int unsigned" → "int".
func baseType(native string) string {
	s := strings.ToLower(strings.TrimSpace(native))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	for _, mod := range []string{" zerofill", " unsigned", " identity"} {
		s = strings.TrimSuffix(s, mod)
	}
	return s
}

// classify returns the semantic type and the base name of a native type.
// Unknown types classify as field.TypeInvalid.
func classify(dialectName, native string) (field.Type, string) {
	types := nativeTypes[dialectName]
	if t, ok := types[strings.ToLower(strings.TrimSpace(native))]; ok {
		return t, baseType(native)
	}
	base := baseType(native)
	return types[base], base
}
