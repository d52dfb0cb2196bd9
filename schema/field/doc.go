// Package field classifies columns and orders property declarations.
//
// Every column reported by a database is mapped to a semantic [Type]. A
// [Table] assigns each type an ordering priority and a target-language alias,
// which makes declarations stable regardless of the physical column order:
//
//	sorted, err := field.Default.Sort(cols)
//	// uuid, bool, string, int32, int64, decimal, float64,
//	// time with offset, time, bytes; ties broken by column name.
//
// # Declarations
//
//	field.Default.Declaration(field.Column{Name: "quantity", Type: field.TypeInt32, Nullable: true})
//	// "public int? Quantity { get; set; }"
//
// A column whose type is missing from the table fails with a [*TypeError]
// matching [ErrUnsupportedType]; no default type is ever guessed.
package field
