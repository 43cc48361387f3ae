package store

import (
	"fmt"

	// Drivers selectable through DB_DRIVER.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

// Dialect captures the per-driver differences in statement text.
type Dialect interface {
	// Placeholder returns the bind marker for the 1-based argument n.
	Placeholder(n int) string
}

type dollarDialect struct{}

func (dollarDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

type questionDialect struct{}

func (questionDialect) Placeholder(int) string { return "?" }

// DialectFor returns the dialect of a registered driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
		return dollarDialect{}, nil
	case DriverSQLite:
		return questionDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
