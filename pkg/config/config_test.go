package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/revatlas/revatlas/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "revatlas"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "revatlas"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "revatlas", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "revatlas", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "revatlas", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, config.WikidataEndpoint, cfg.Import.Endpoint)
	assert.Contains(t, cfg.Import.UserAgent, "revatlas")
	assert.Equal(t, 1000, cfg.Import.PageSize)
	assert.Equal(t, time.Second, cfg.Import.PageDelay)
	assert.Equal(t, 4, cfg.Import.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Import.InitialBackoff)
	assert.Empty(t, cfg.Import.Schedule)
	assert.False(t, cfg.Import.OnStartup)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, 1900, cfg.MinYear)
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets valid host", "db.example.com", "db.example.com"},
		{"trims whitespace", "  db.example.com  ", "db.example.com"},
		{"ignores empty string", "", "localhost"},
		{"ignores whitespace-only", "   ", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseHost(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets sqlite", "sqlite", "sqlite"},
		{"normalizes case", "SQLite", "sqlite"},
		{"ignores unknown driver", "mysql", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseDriver(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionImport(t *testing.T) {
	t.Run("page size", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportPageSize(50)})
		assert.Equal(t, 50, cfg.Import.PageSize)

		cfg.Update([]config.Option{config.OptImportPageSize(0)})
		assert.Equal(t, 50, cfg.Import.PageSize)
	})

	t.Run("page delay accepts zero", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportPageDelay(0)})
		assert.Equal(t, time.Duration(0), cfg.Import.PageDelay)

		cfg.Update([]config.Option{config.OptImportPageDelay(-time.Second)})
		assert.Equal(t, time.Duration(0), cfg.Import.PageDelay)
	})

	t.Run("timeout rejects zero", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportTimeout(0)})
		assert.Equal(t, 60*time.Second, cfg.Import.Timeout)
	})

	t.Run("endpoint must be a URL", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportEndpoint("not a url")})
		assert.Equal(t, config.WikidataEndpoint, cfg.Import.Endpoint)

		cfg.Update([]config.Option{
			config.OptImportEndpoint("http://localhost:9999/sparql"),
		})
		assert.Equal(t, "http://localhost:9999/sparql", cfg.Import.Endpoint)
	})

	t.Run("schedule can be switched off", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptImportSchedule("@daily")})
		assert.Equal(t, "@daily", cfg.Import.Schedule)

		cfg.Update([]config.Option{config.OptImportSchedule("off")})
		assert.Empty(t, cfg.Import.Schedule)
	})
}

func TestOptionServerCORSOrigins(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptServerCORSOrigins([]string{" https://a.org ", "", "https://b.org"}),
	})
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.Server.CORSOrigins)

	cfg.Update([]config.Option{config.OptServerCORSOrigins([]string{"  "})})
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.Server.CORSOrigins)
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets debug", "debug", "debug"},
		{"sets error", "error", "error"},
		{"normalizes to lowercase", "DEBUG", "debug"},
		{"ignores invalid value", "trace", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestToOptionsRoundTrip(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabasePath("/tmp/events.sqlite"),
		config.OptImportPageSize(200),
		config.OptImportPageDelay(3 * time.Second),
		config.OptImportSchedule("0 3 * * *"),
		config.OptImportOnStartup(true),
		config.OptServerPort(9000),
		config.OptMinYear(1950),
		config.OptLogFormat("text"),
		config.OptHomeDir("/home/someone"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, "sqlite", dst.Database.Driver)
	assert.Equal(t, "/tmp/events.sqlite", dst.Database.Path)
	assert.Equal(t, 200, dst.Import.PageSize)
	assert.Equal(t, 3*time.Second, dst.Import.PageDelay)
	assert.Equal(t, "0 3 * * *", dst.Import.Schedule)
	assert.True(t, dst.Import.OnStartup)
	assert.Equal(t, 9000, dst.Server.Port)
	assert.Equal(t, 1950, dst.MinYear)
	assert.Equal(t, "text", dst.Log.Format)
	assert.Empty(t, dst.HomeDir, "HomeDir is runtime-only")
}
