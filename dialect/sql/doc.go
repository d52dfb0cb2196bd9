// Package sql implements the database collaborator of the generator over
// database/sql.
//
// # Opening
//
// Open selects the driver registered for the dialect and pings the database,
// retrying with exponential backoff:
//
//	drv, err := sql.Open(ctx, dialect.SQLServer, dsn,
//	    sql.WithRetries(5),
//	    sql.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// PostgreSQL uses lib/pq by default; WithDriverName("pgx") switches to the
// pgx stdlib driver.
//
// # Metadata
//
// Source reads the metadata table (entity_metadata by default) with one
// parameterized query ordered by component, feature and entity name:
//
//	src, err := sql.NewSource(drv, sql.WithMetadataTable("meta.entities"))
//	entities, err := src.ListEntities(ctx, schema.Table, schema.View)
//
// # Columns
//
// Table columns are inspected with atlas for PostgreSQL, MySQL and SQLite.
// Relations atlas does not inspect (views) are described from an empty
// result set. SQL Server columns come from sys.columns, and the first result
// set of stored procedures from sys.dm_exec_describe_first_result_set_for_object.
// Native types are classified into semantic types per dialect; unknown types
// classify as field.TypeInvalid and fail later with an UnsupportedType error.
//
// # Statistics
//
// Every statement, including the inspector's, goes through a StatsQuerier
// that counts queries and logs slow ones:
//
//	fmt.Printf("%+v\n", drv.Stats())
//
// Close logs the final counters at debug level.
package sql
