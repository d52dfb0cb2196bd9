// Package naming derives identifiers for generated code.
//
// Every conversion starts from the same word split (see [Words]), so that a
// column named "invoice_line_id" becomes "InvoiceLineId", "invoiceLineId",
// "invoice-line-id" or "Invoice line id" consistently across all artifacts.
//
// # Case conversions
//
//	naming.Pascal("invoice_id")   // "InvoiceId"
//	naming.Camel("InvoiceId")     // "invoiceId"
//	naming.Snake("InvoiceId")     // "invoice_id"
//	naming.Kebab("InvoiceId")     // "invoice-id"
//	naming.Sentence("InvoiceId")  // "Invoice id"
//	naming.Title("invoice_id")    // "Invoice Id"
//
// # Pluralization
//
// [Plural] consults an irregular table first, then a set of invariant words,
// and finally the suffix rules. The casing of the input is preserved:
//
//	naming.Plural("Person")       // "People"
//	naming.Plural("sheep")        // "sheep"
//	naming.Plural("InvoiceBox")   // "InvoiceBoxes"
//
// # Reserved words
//
// Derived variable and parameter names are passed through a [Keywords] table
// before they are emitted:
//
//	naming.CSharp.Guard("event")  // "@event"
//	naming.Go.Guard("type")       // "_type"
//
// None of the functions in this package fail. Blank input yields an empty
// string for conversions and is returned unchanged by Plural, PreserveCase and
// Guard.
package naming
