// Package dialect names the databases layergen reads entity metadata from.
//
// # Supported Dialects
//
// The following dialects are supported:
//
//   - SQLServer: Microsoft SQL Server (go-mssqldb)
//   - Postgres: PostgreSQL (lib/pq, or pgx through its stdlib driver)
//   - MySQL: MySQL/MariaDB (go-sql-driver/mysql)
//   - SQLite: SQLite (modernc.org/sqlite)
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.SQLServer = "sqlserver"
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.SQLite    = "sqlite"
//
// Parse maps configuration values, including common aliases, to these names:
//
//	name, err := dialect.Parse("mssql") // "sqlserver"
//
// # Sub-packages
//
//   - dialect/sql: database/sql collaborator (metadata query, column inspection)
//   - dialect/snapshot: offline msgpack snapshot of metadata and columns
package dialect
