package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the store driver.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptImportEndpoint sets the SPARQL endpoint URL.
func OptImportEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Import Endpoint", s) {
			c.Import.Endpoint = s
		}
	}
}

// OptImportUserAgent sets the User-Agent sent to the SPARQL endpoint.
func OptImportUserAgent(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Import User Agent", s) {
			c.Import.UserAgent = s
		}
	}
}

// OptImportPageSize sets the number of bindings requested per page.
func OptImportPageSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Import Page Size", i) {
			c.Import.PageSize = i
		}
	}
}

// OptImportPageDelay sets the pause between page requests.
// Zero disables the pause.
func OptImportPageDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Import Page Delay", d, true) {
			c.Import.PageDelay = d
		}
	}
}

// OptImportMaxAttempts sets the number of attempts per page.
func OptImportMaxAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Import Max Attempts", i) {
			c.Import.MaxAttempts = i
		}
	}
}

// OptImportInitialBackoff sets the wait before the first retry.
func OptImportInitialBackoff(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Import Initial Backoff", d, true) {
			c.Import.InitialBackoff = d
		}
	}
}

// OptImportMaxRetryWait caps a single wait between attempts.
func OptImportMaxRetryWait(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Import Max Retry Wait", d, false) {
			c.Import.MaxRetryWait = d
		}
	}
}

// OptImportTimeout sets the timeout of one HTTP request.
func OptImportTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Import Timeout", d, false) {
			c.Import.Timeout = d
		}
	}
}

// OptImportSchedule sets the cron expression for periodic imports.
// Use "off" to disable a schedule set in config.yaml.
func OptImportSchedule(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s == "off" {
			c.Import.Schedule = ""
			return
		}
		if isValidString("Import Schedule", s) {
			c.Import.Schedule = s
		}
	}
}

// OptImportOnStartup sets whether serve starts an import right away.
func OptImportOnStartup(b bool) Option {
	return func(c *Config) {
		c.Import.OnStartup = b
	}
}

// OptServerPort sets the port of the HTTP gateway.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerCORSOrigins sets origins allowed for cross-origin requests.
func OptServerCORSOrigins(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Server.CORSOrigins = res
		}
	}
}

// OptServerRateLimit sets requests per minute allowed for one client IP.
func OptServerRateLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Rate Limit", i) {
			c.Server.RateLimit = i
		}
	}
}

// OptMinYear sets the earliest start year of imported and served events.
func OptMinYear(i int) Option {
	return func(c *Config) {
		if isValidInt("Min Year", i) {
			c.MinYear = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
