//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/tradeledger/config"
	"github.com/guttosm/tradeledger/internal/app"
)

func startPG(t *testing.T) (dsn string, host string, port nat.Port, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=tradeledger sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "tradeledger")
	terminate = func() { _ = c.Terminate(context.Background()) }
	return dsn, h, mp, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedForE2E(t *testing.T, db *sql.DB) {
	t.Helper()
	insert := func(ticket int64, open, close int64, comment string) {
		_, err := db.Exec(`
            INSERT INTO "TradeHistories" (
                "TradeAccountID", "Ticket", "SymbolName", "Digits", "Type", "Quantity", "State",
                "OpenTime", "OpenPrice", "OpenRate", "CloseTime", "ClosePrice", "CloseRate",
                "StopLoss", "TakeProfit", "Expiration", "Commission", "CommissionAgent",
                "Swap", "Profit", "Tax", "Magic", "Comment", "TimeStamp"
            ) VALUES (777,$1,'EURUSD',5,0,0.01,0,$2,1.07,0,$3,1.08,0,0,0,0,0,0,0,0.7,0,0,$4,$2)
        `, ticket, open, close, comment)
		if err != nil {
			t.Fatalf("seed %d: %v", ticket, err)
		}
	}
	insert(1001, 20230209084334000, 20230209090257000, "first")
	insert(1002, 20230210101010000, 19700101000000000, "still open")
}

func TestAPI_E2E_SearchTrades(t *testing.T) {
	dsn, host, port, term := startPG(t)
	defer term()
	db := openAndMigrate(t, dsn)
	defer db.Close()
	seedForE2E(t, db)

	p, _ := strconv.Atoi(port.Port())
	cfg := config.Config{
		Server: config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{
			Driver:   "postgres",
			Host:     host,
			Port:     p,
			User:     "postgres",
			Password: "postgres",
			Name:     "tradeledger",
			SSLMode:  "disable",
		},
	}

	router, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trades?account_id=777&opened_from=2023-02-10&order_by=Ticket", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var body []struct {
		Ticket    int64   `json:"ticket"`
		CloseTime *string `json:"close_time"`
		OpenTime  string  `json:"open_time"`
		IsClosed  bool    `json:"is_closed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body) != 1 || body[0].Ticket != 1002 || body[0].CloseTime != nil || body[0].IsClosed {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body[0].OpenTime != "2023-02-10T10:10:10.000Z" {
		t.Fatalf("open_time=%s", body[0].OpenTime)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
}
