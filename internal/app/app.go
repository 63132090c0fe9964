package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/config"
	"github.com/guttosm/tradeledger/internal/api"
	"github.com/guttosm/tradeledger/internal/metrics"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/service"
	"github.com/guttosm/tradeledger/internal/storage"
)

// OpenService connects to the store and builds the service layer on top of it.
//
// Returns the service and a cleanup function that closes the connection.
func OpenService(cfg config.DatabaseConfig) (service.TradeHistoryService, func(), error) {
	dialect, err := query.DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := databaseOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := storage.NewTradeHistoryRepository(db, dialect)
	svc := service.NewTradeHistoryService(repo)

	return svc, func() { _ = db.Close() }, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to the store using InitDatabase().
//   - Initializes the repository and service layers.
//   - Creates the HTTP handler layer and the metrics registry.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness checks.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	dialect, err := query.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := databaseOpener(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := storage.NewTradeHistoryRepository(db, dialect)
	svc := service.NewTradeHistoryService(repo)

	m := metrics.New()
	handler := api.NewHandler(svc, m)
	router := api.NewRouter(handler, m)

	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
