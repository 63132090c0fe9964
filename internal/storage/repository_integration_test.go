//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/tradeledger/internal/query"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "tradeledger",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=tradeledger sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "tradeledger")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// internal/storage → ../../db/migrations
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func seedTrades(t *testing.T, db *sql.DB) {
	t.Helper()

	exec := func(account, ticket int64, symbol string, open, close, expiration int64, magic int64, comment string) {
		_, err := db.Exec(`
            INSERT INTO "TradeHistories" (
                "TradeAccountID", "Ticket", "SymbolName", "Digits", "Type", "Quantity", "State",
                "OpenTime", "OpenPrice", "OpenRate", "CloseTime", "ClosePrice", "CloseRate",
                "StopLoss", "TakeProfit", "Expiration", "Commission", "CommissionAgent",
                "Swap", "Profit", "Tax", "Magic", "Comment", "TimeStamp"
            ) VALUES ($1,$2,$3,5,0,0.01,0,$4,1.07,0,$5,1.08,0,0,0,$6,0,0,0,0.7,0,$7,$8,$5)
        `, account, ticket, symbol, open, close, expiration, magic, comment)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	exec(111, 3599795, "EURUSD", 20230209084334000, 20230209090257000, 19700101000000000, 3599793, "close hedge by #3599791")
	exec(111, 3599800, "GBPUSD", 20230210101010000, 0, 0, 0, "open")
	exec(222, 3599900, "EURUSD", 20230211120000, 20230211130000, 0, 42, "filled")
}

func TestRepository_Integration_TableDriven(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)
	seedTrades(t, db)

	repo := NewTradeHistoryRepository(db, query.Postgres)
	ctx := context.Background()

	acct := int64(111)
	from := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		mutate  func(c *query.Criteria)
		wantIDs int
	}{
		{name: "all rows", mutate: func(*query.Criteria) {}, wantIDs: 3},
		{name: "by account", mutate: func(c *query.Criteria) { c.AccountID = &acct }, wantIDs: 2},
		{name: "opened from", mutate: func(c *query.Criteria) { c.OpenedFrom = &from }, wantIDs: 2},
		{name: "comment like", mutate: func(c *query.Criteria) { c.CommentLike = "hedge" }, wantIDs: 1},
		{name: "page", mutate: func(c *query.Criteria) { c.Limit = 1; c.Offset = 2 }, wantIDs: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := query.DefaultCriteria()
			tc.mutate(&c)
			out, err := repo.FindTrades(ctx, c)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(out) != tc.wantIDs {
				t.Fatalf("want %d rows got %d", tc.wantIDs, len(out))
			}
		})
	}

	t.Run("mapping of sample row", func(t *testing.T) {
		c := query.DefaultCriteria()
		c.Symbol = "EURUSD"
		c.AccountID = &acct
		out, err := repo.FindTrades(ctx, c)
		if err != nil || len(out) != 1 {
			t.Fatalf("unexpected out=%v err=%v", out, err)
		}
		r := out[0]
		if r.Expiration != nil || !r.IsClosed() {
			t.Fatalf("unexpected record %+v", r)
		}
		if got := r.OpenTime.Format(time.RFC3339); got != "2023-02-09T08:43:34Z" {
			t.Fatalf("open_time=%s", got)
		}
	})

	t.Run("raw select", func(t *testing.T) {
		out, err := repo.FindTradesBySQL(ctx, `-- all of them
SELECT * FROM "TradeHistories" ORDER BY "ID"`)
		if err != nil || len(out) != 3 {
			t.Fatalf("unexpected out=%v err=%v", len(out), err)
		}
		if out[1].CloseTime != nil || out[1].IsClosed() || !out[1].HasSystemMagic() {
			t.Fatalf("sentinels not decoded: %+v", out[1])
		}
	})

	t.Run("raw select missing columns", func(t *testing.T) {
		_, err := repo.FindTradesBySQL(ctx, `SELECT "ID", "Magic" FROM "TradeHistories"`)
		var sm *query.SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("want SchemaMismatchError, got %v", err)
		}
	})
}
