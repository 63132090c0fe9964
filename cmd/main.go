package main

//
//  @title           tradeledger API
//  @version         1.0
//  @description     Read-only query API over the TradeHistories store.
//  @termsOfService  https://github.com/guttosm/tradeledger
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tradeledger
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        trades
//  @tag.description Filtered, paginated trade history
//
//  @tag.name        health
//  @tag.description Liveness and readiness checks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/tradeledger/config"
	_ "github.com/guttosm/tradeledger/docs" // swagger docs
	"github.com/guttosm/tradeledger/internal/app"
	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/logger"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/tradetime"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// exitUsage is the exit code for invalid flag combinations.
const exitUsage = 2

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// newFlagSet declares every command-line flag. Flags that mirror a config
// key default to their zero value so the config defaults apply unless the
// flag is set.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tradeledger", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n"+
			"  tradeledger --mode filter INPUT [OUTPUT] [--inplace] [filter flags]\n"+
			"  tradeledger [--mode export] [connection flags] [--sql Q | --sql-file F | search flags] [output flags]\n"+
			"  tradeledger --mode api [connection flags] [--listen PORT]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.String("mode", "export", "Mode: filter, export or api")

	// connection (DB_*)
	fs.String("driver", "", "Database driver: mysql or postgres (default mysql)")
	fs.String("host", "", "Database host (default localhost)")
	fs.Int("port", 0, "Database port (default 3306 for mysql, 5432 for postgres)")
	fs.String("user", "", "Database user (default root)")
	fs.String("password", "", "Database password")
	fs.String("database", "", "Database name")
	fs.String("sslmode", "", "Postgres sslmode (default disable)")

	// export
	fs.String("sql", "", "Raw read-only SELECT to run as-is")
	fs.String("sql-file", "", "File holding the raw SELECT; wins over --sql")
	fs.Int64("account-id", 0, "Filter by TradeAccountID")
	fs.Int64("ticket", 0, "Filter by Ticket")
	fs.String("symbol", "", "Filter by SymbolName")
	fs.String("opened-from", "", "OpenTime lower bound, ISO-8601 (naive = UTC)")
	fs.String("opened-to", "", "OpenTime upper bound, ISO-8601")
	fs.String("closed-from", "", "CloseTime lower bound, ISO-8601")
	fs.String("closed-to", "", "CloseTime upper bound, ISO-8601")
	fs.String("comment-like", "", "Substring match on Comment")
	fs.Int("limit", query.DefaultLimit, "Page size (1-10000)")
	fs.Int("offset", 0, "Rows to skip")
	fs.String("order-by", query.DefaultOrderBy, "Sort column: ID, OpenTime, CloseTime, TimeStamp or Ticket")
	fs.String("order-dir", query.DefaultOrderDir, "Sort direction: ASC or DESC")
	fs.String("csv-out", "", "Write records to this CSV file")
	fs.String("xlsx-out", "", "Write records to this XLSX file")
	fs.Bool("jsonl", false, "Write JSON lines to stdout (implied when no file output is given)")

	// filter
	fs.Bool("inplace", false, "Overwrite INPUT with the filtered rows")
	fs.Int("chunksize", 0, "Rows per chunk (default 100000)")
	fs.String("encoding", "", "Input and output encoding (default utf-8)")
	fs.String("sep", "", `Field separator, "\t" for tab (default ",")`)
	fs.String("na-values", "", `Extra null markers separated by "|"`)

	// api
	fs.String("listen", "", "Port for API mode (default 8080)")

	return fs
}

// usageError marks argument problems that exit with exitUsage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// filterRequest reads INPUT [OUTPUT] and --inplace.
func filterRequest(fs *pflag.FlagSet) (app.FilterRequest, error) {
	args := fs.Args()
	inplace, _ := fs.GetBool("inplace")

	switch {
	case len(args) == 0:
		return app.FilterRequest{}, usageError{errors.New("filter mode needs an INPUT file")}
	case len(args) > 2:
		return app.FilterRequest{}, usageError{fmt.Errorf("unexpected arguments: %s", strings.Join(args[2:], " "))}
	case len(args) == 2 && inplace:
		return app.FilterRequest{}, usageError{app.ErrInPlaceWithOutput}
	}

	req := app.FilterRequest{Input: args[0], InPlace: inplace}
	if len(args) == 2 {
		req.Output = args[1]
	}
	return req, nil
}

// printFilterResult writes the output path to w. In-place runs print
// nothing; the log line already names the file.
func printFilterResult(w io.Writer, req app.FilterRequest, res models.FilterResult) {
	if req.InPlace {
		return
	}
	fmt.Fprintln(w, res.Output)
}

// exportOptions collects the export selection and outputs from fs. The
// --sql-file contents are read from files.
func exportOptions(fs *pflag.FlagSet, files afero.Fs) (app.ExportOptions, error) {
	opts := app.ExportOptions{Criteria: query.DefaultCriteria()}

	opts.SQL, _ = fs.GetString("sql")
	if path, _ := fs.GetString("sql-file"); path != "" {
		b, err := afero.ReadFile(files, path)
		if err != nil {
			return opts, fmt.Errorf("read --sql-file: %w", err)
		}
		opts.SQL = string(b)
	}
	opts.SQL = strings.TrimSpace(opts.SQL)

	c := &opts.Criteria
	if fs.Changed("account-id") {
		v, _ := fs.GetInt64("account-id")
		c.AccountID = &v
	}
	if fs.Changed("ticket") {
		v, _ := fs.GetInt64("ticket")
		c.Ticket = &v
	}
	c.Symbol, _ = fs.GetString("symbol")
	c.CommentLike, _ = fs.GetString("comment-like")

	for _, b := range []struct {
		flag string
		dst  **time.Time
	}{
		{"opened-from", &c.OpenedFrom},
		{"opened-to", &c.OpenedTo},
		{"closed-from", &c.ClosedFrom},
		{"closed-to", &c.ClosedTo},
	} {
		s, _ := fs.GetString(b.flag)
		if s == "" {
			continue
		}
		t, err := tradetime.ParseISO(s)
		if err != nil {
			return opts, fmt.Errorf("--%s: %w", b.flag, err)
		}
		*b.dst = &t
	}

	c.Limit, _ = fs.GetInt("limit")
	c.Offset, _ = fs.GetInt("offset")
	c.OrderBy, _ = fs.GetString("order-by")
	c.OrderDir, _ = fs.GetString("order-dir")

	opts.CSVOut, _ = fs.GetString("csv-out")
	opts.XLSXOut, _ = fs.GetString("xlsx-out")
	opts.JSONL, _ = fs.GetBool("jsonl")
	return opts, nil
}

// main is the entry point of the tradeledger application.
//
// Modes (selected via --mode flag):
//   - filter: Drops system-magic and cancelled rows from a trade CSV.
//   - export: Reads TradeHistories and writes CSV, XLSX or JSON lines.
//   - api:    Starts the REST API over the same store.
//
// Configuration comes from the environment (and .env); flags that are set
// explicitly take precedence. Errors exit 1, invalid flag combinations exit 2.
func main() {
	logger.Init()

	fs := newFlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(exitUsage)
	}

	cfg, err := config.LoadConfig(fs)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("config error")
	}

	mode, _ := fs.GetString("mode")
	switch mode {
	case "filter":
		req, err := filterRequest(fs)
		if err != nil {
			logger.L().Error().Err(err).Msg("invalid arguments")
			os.Exit(exitUsage)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := app.RunFilter(ctx, afero.NewOsFs(), cfg.Filter, req)
		if err != nil {
			logger.L().Fatal().Err(err).Str("input", req.Input).Msg("filter failed")
		}
		printFilterResult(os.Stdout, req, res)

	case "export":
		files := afero.NewOsFs()
		opts, err := exportOptions(fs, files)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid export options")
		}

		svc, cleanup, err := app.OpenService(cfg.Database)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := app.RunExport(ctx, svc, files, opts, os.Stdout)
		if err != nil {
			cleanup()
			logger.L().Fatal().Err(err).Msg("export failed")
		}
		logger.L().Info().Int("records", res.Records).Int("system_magic", res.SystemMagic).Strs("files", res.Files).Msg("export completed")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, cfg.Server.Port)
		gracefulShutdown(context.Background(), server, cleanup)

	default:
		logger.L().Fatal().Str("mode", mode).Msg("unknown mode")
	}
}
