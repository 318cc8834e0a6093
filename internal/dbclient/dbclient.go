package dbclient

import (
	"database/sql"
	"fmt"
	"time"
)

// Package dbclient opens read-only style connections to external relational
// databases. One driver per file; each registers itself in drivers.

type driverInfo struct {
	sqlDriver string // name registered with database/sql
	quote     func(ident string) string
}

var drivers = map[string]driverInfo{}

func registerDriver(name, sqlDriver string, quote func(string) string) {
	drivers[name] = driverInfo{sqlDriver: sqlDriver, quote: quote}
}

// Open connects to an external database by driver name ("mysql",
// "postgres", "sqlite") and DSN.
func Open(driver, dsn string) (*sql.DB, error) {
	info, ok := drivers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}

	db, err := sql.Open(info.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// A single sequential reader needs no pool to speak of.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)
	return db, nil
}

// quoteIdent quotes a table identifier for the given driver.
func quoteIdent(driver, ident string) (string, error) {
	info, ok := drivers[driver]
	if !ok {
		return "", fmt.Errorf("unsupported driver: %q", driver)
	}
	return info.quote(ident), nil
}
