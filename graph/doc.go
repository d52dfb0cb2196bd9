// Package graph provides the read-only entity index of a generation run.
//
// The [Index] is built once from the entities returned by the metadata query
// and never changes afterwards, so per-entity workers may read it
// concurrently without locking.
//
// # Scoped listings
//
//	x := graph.New(entities)
//	x.Components()                    // ["Billing", "Sales"]
//	x.Features("Billing")             // ["Invoices", "Payments"]
//	x.Entities("Billing", "Invoices") // ["Invoice", "InvoiceLine"]
//
// Listings are distinct and alphabetical. A blank or unknown scope yields an
// empty list.
//
// # Lookups
//
// A lookup by (component, feature, entity) must resolve to exactly one
// entity. [Index.Lookup] returns a tagged [Result]; [Index.Get] turns a
// failed result into a [*NotFoundError] or an [*AmbiguousError] carrying the
// match count:
//
//	e, err := x.Get("Billing", "Invoices", "Invoice")
//	if errors.Is(err, graph.ErrLookupAmbiguous) {
//	    ...
//	}
package graph
