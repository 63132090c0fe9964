package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
//
// It is built once by LoadConfig at program start and passed down
// explicitly; nothing below main reads the environment.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	DB_DRIVER=mysql
//	DB_HOST=localhost
//	DB_PORT=3306
//	DB_USER=root
//	DB_PASSWORD=secret
//	DB_NAME=trading
//	FILTER_CHUNK_SIZE=100000
//	CSV_ENCODING=utf-8
//	CSV_SEPARATOR=,
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Database DatabaseConfig // TradeHistories store connection
	Filter   FilterConfig   // CSV filter tuning
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// DatabaseConfig defines connection details for the trade history store.
//
// Fields:
//   - Driver: database/sql driver name, "mysql" or "postgres".
//   - Host / Port: server address; Port defaults by driver (3306 / 5432).
//   - User / Password: credentials.
//   - Name: database (schema) holding TradeHistories.
//   - SSLMode: Postgres sslmode; ignored by MySQL.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// FilterConfig holds the CSV filter defaults.
type FilterConfig struct {
	ChunkSize  int
	Encoding   string
	Separator  string
	NullValues string
}

// flagKeys maps configuration keys to the command-line flags that can
// override them.
var flagKeys = map[string]string{
	"SERVER_PORT":       "listen",
	"DB_DRIVER":         "driver",
	"DB_HOST":           "host",
	"DB_PORT":           "port",
	"DB_USER":           "user",
	"DB_PASSWORD":       "password",
	"DB_NAME":           "database",
	"DB_SSLMODE":        "sslmode",
	"FILTER_CHUNK_SIZE": "chunksize",
	"CSV_ENCODING":      "encoding",
	"CSV_SEPARATOR":     "sep",
	"CSV_NA_VALUES":     "na-values",
}

// LoadConfig builds a Config.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//  4. Flags in fs that were set explicitly.
//
// Parameters:
//   - fs: parsed command-line flags; may be nil. Flags missing from fs are
//     skipped.
//
// DB_PORT, when unset, defaults to the driver's usual port. The result is
// not validated; call DatabaseConfig.Validate before connecting.
func LoadConfig(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("FILTER_CHUNK_SIZE", 100000)
	v.SetDefault("CSV_ENCODING", "utf-8")
	v.SetDefault("CSV_SEPARATOR", ",")
	v.SetDefault("CSV_NA_VALUES", "")

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Filter: FilterConfig{
			ChunkSize:  v.GetInt("FILTER_CHUNK_SIZE"),
			Encoding:   v.GetString("CSV_ENCODING"),
			Separator:  v.GetString("CSV_SEPARATOR"),
			NullValues: v.GetString("CSV_NA_VALUES"),
		},
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultPort(cfg.Database.Driver)
	}
	if cfg.Filter.ChunkSize <= 0 {
		return Config{}, fmt.Errorf("FILTER_CHUNK_SIZE must be positive, got %d", cfg.Filter.ChunkSize)
	}

	return cfg, nil
}

// DefaultPort returns the conventional port for a driver, or 0.
func DefaultPort(driver string) int {
	switch driver {
	case "mysql":
		return 3306
	case "postgres":
		return 5432
	default:
		return 0
	}
}

// Validate reports every missing connection setting in one error.
func (c DatabaseConfig) Validate() error {
	var missing []string

	if c.Driver != "mysql" && c.Driver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", c.Driver)
	}
	if c.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Port == 0 {
		missing = append(missing, "DB_PORT")
	}
	if c.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Name == "" {
		missing = append(missing, "DB_NAME")
	}

	if len(missing) > 0 {
		return errors.New("missing required settings: " + strings.Join(missing, ", "))
	}
	return nil
}

// DSN renders the connection string for Driver.
func (c DatabaseConfig) DSN() string {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))

	if c.Driver == "postgres" {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     addr,
			Path:     "/" + c.Name,
			RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = c.Name
	return mc.FormatDSN()
}
