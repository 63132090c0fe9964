package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/tradeledger/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for database/sql
	_ "github.com/lib/pq"              // PostgreSQL driver for database/sql
)

// pingTimeout bounds the connectivity check done on open.
const pingTimeout = 10 * time.Second

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitDatabase opens the trade history store described by cfg.
//
// Parameters:
//   - cfg (config.DatabaseConfig): driver and connection settings.
//
// Behavior:
//   - Validates cfg so a missing DB_NAME fails before any network traffic.
//   - Opens a database handle with sql.Open using cfg.DSN().
//   - Pings the database to validate connectivity.
//
// Returns:
//   - *sql.DB: an open connection pool (safe for concurrent use).
//   - error: if validation, opening or pinging fails.
func InitDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	db, err := sqlOpener(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s at %s:%d: %w", cfg.Driver, cfg.Host, cfg.Port, err)
	}

	return db, nil
}

// databaseOpener is an indirection used by InitializeApp and OpenService;
// overridden in tests to avoid real connections.
var databaseOpener = InitDatabase
