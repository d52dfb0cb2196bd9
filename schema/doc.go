// Package schema defines the entity metadata read from the metadata table.
//
// An [Entity] is one generated business object. It belongs to a component
// and a feature, is backed by a storage structure (table, view, procedure or
// projection), and declares its logical identity as an ordered, comma-delimited
// list of key columns:
//
//	e := schema.Entity{
//	    Component:    "Billing",
//	    Feature:      "Invoices",
//	    Name:         "Invoice",
//	    Structure:    schema.Table,
//	    StorageTable: "invoice",
//	    StorageKey:   "invoice_id, line_no",
//	}
//	e.KeyColumns() // ["invoice_id", "line_no"]
//
// The order of the key columns fixes the order of parameters, arguments and
// equality terms in every generated artifact.
//
// Metadata that contradicts itself or the live schema fails with a
// [*MetadataError] matching [ErrMetadataInconsistency].
package schema
