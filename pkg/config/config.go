// Package config provides configuration management for revatlas.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode, path
//   - Import: endpoint, user_agent, page_size, page_delay, max_attempts,
//     initial_backoff, max_retry_wait, timeout, schedule, on_startup
//   - Server: port, cors_origins, rate_limit
//   - Log: level, format, destination
//   - General: min_year
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use REVATLAS_ prefix with underscores for nesting:
//
//	REVATLAS_DATABASE_HOST=localhost
//	REVATLAS_IMPORT_PAGE_SIZE=1000
//	REVATLAS_SERVER_PORT=8080
//	REVATLAS_MIN_YEAR=1900
package config

import (
	"fmt"
	"time"
)

// Config represents the complete revatlas configuration.
type Config struct {
	// Database contains connection settings of the events store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings of the Wikidata importer.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Server contains settings of the HTTP query gateway.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// MinYear is the earliest start year of events that get imported
	// and served. Both the importer query and the gateway filter use it.
	MinYear int `mapstructure:"min_year" yaml:"min_year"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains store connection parameters.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file. Used only with the sqlite driver.
	Path string `mapstructure:"path" yaml:"path"`
}

// ImportConfig contains settings of the importer and its SPARQL client.
type ImportConfig struct {
	// Endpoint is the URL of the SPARQL query service.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// UserAgent identifies revatlas to the query service. Wikidata
	// requires a descriptive agent with contact information.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// PageSize is the LIMIT of every paged query.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// PageDelay is the pause between two page requests.
	PageDelay time.Duration `mapstructure:"page_delay" yaml:"page_delay"`

	// MaxAttempts is the total number of attempts for one page,
	// the first request included.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`

	// InitialBackoff is the wait before the first retry. It doubles
	// with every following retry.
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`

	// MaxRetryWait caps any single wait, including Retry-After values
	// sent by the server.
	MaxRetryWait time.Duration `mapstructure:"max_retry_wait" yaml:"max_retry_wait"`

	// Timeout limits one HTTP request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Schedule is a cron expression for periodic imports run by
	// `revatlas serve`. Empty disables scheduling.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`

	// OnStartup starts an import in background when the server starts.
	OnStartup bool `mapstructure:"on_startup" yaml:"on_startup"`
}

// ServerConfig contains settings of the HTTP gateway.
type ServerConfig struct {
	// Port the HTTP server listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// RateLimit is the number of requests per minute allowed for one IP.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "revatlas",
			SSLMode:  "disable",
			Path:     "revatlas.sqlite",
		},
		Import: ImportConfig{
			Endpoint:       WikidataEndpoint,
			UserAgent:      fmt.Sprintf("%s/%s (%s)", AppName, "0.1", ContactURL),
			PageSize:       1000,
			PageDelay:      time.Second,
			MaxAttempts:    4,
			InitialBackoff: 2 * time.Second,
			MaxRetryWait:   2 * time.Minute,
			Timeout:        60 * time.Second,
		},
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
			RateLimit:   300,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		MinYear: 1900,
	}

	return res
}
