package dialect

import (
	"fmt"
	"strings"
)

// Dialect names.
const (
	SQLServer = "sqlserver"
	Postgres  = "postgres"
	MySQL     = "mysql"
	SQLite    = "sqlite"
)

// Names returns the supported dialect names.
func Names() []string {
	return []string{SQLServer, Postgres, MySQL, SQLite}
}

// Parse returns the canonical name of a dialect. It accepts the common
// aliases "mssql", "postgresql", "pgx" and "sqlite3".
func Parse(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case SQLServer, "mssql":
		return SQLServer, nil
	case Postgres, "postgresql", "pgx":
		return Postgres, nil
	case MySQL, "mariadb":
		return MySQL, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q (use one of %s)", name, strings.Join(Names(), ", "))
	}
}
