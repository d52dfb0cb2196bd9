// Package snapshot captures the entity metadata and table columns of a
// database into a msgpack file, so generation can run without a connection.
//
//	snap, err := snapshot.Capture(ctx, src, snapshot.WithDialect(dialect.SQLServer))
//	if err != nil {
//	    return err
//	}
//	if err := snap.SaveFile("metadata.snap"); err != nil {
//	    return err
//	}
//
// A loaded snapshot serves as the generator source:
//
//	snap, err := snapshot.LoadFile("metadata.snap")
//	g, err := gen.NewGenerator(ctx, snap.Source(), renderer, out)
//
// Tables that could not be read at capture time are absent, and the entities
// stored in them fail with a metadata inconsistency, as they would live.
package snapshot
