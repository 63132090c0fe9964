package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect renders the driver-specific parts of a statement.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string
	Quote(ident string) string
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) Placeholder(int) string { return "?" }

func (mysqlDialect) Quote(ident string) string { return ident }

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// Quote keeps the CamelCase column names; Postgres folds unquoted ones to
// lower case.
func (postgresDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
)

// DialectFor maps a database/sql driver name to its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
