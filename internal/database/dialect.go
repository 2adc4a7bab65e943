package database

import (
	"fmt"
	"strings"

	"github.com/weekboard/api/internal/config"
)

// Dialect captures what actually differs between the supported backends:
// placeholder style and DDL. Queries throughout the repositories are
// written in `?` style and rebound once per statement. Result shapes need
// no handling here; database/sql normalizes them for every driver.
//
// A Dialect is resolved once from configuration at startup and injected,
// so every query in a request uses the same backend conventions.
type Dialect string

const (
	DialectPostgres Dialect = config.DriverPostgres
	DialectMySQL    Dialect = config.DriverMySQL
	DialectSQLite   Dialect = config.DriverSQLite
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres, config.DriverMySQL, config.DriverSQLite:
		return Dialect(driver), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Rebind converts a query written with `?` placeholders into the
// positional `$n` style when the dialect requires it. Literal question
// marks inside quoted strings are left alone.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
