package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// ConnectionError is returned when the store cannot be opened.
func ConnectionError(cfg *config.DatabaseConfig, err error) error {
	if cfg.Driver == "sqlite" {
		msg := `Cannot open SQLite database

<em>File:</em> %s

<em>How to fix:</em>
  1. Check that the directory exists and is writable
  2. Check <em>database.path</em> in ~/.config/revatlas/config.yaml`
		return &gn.Error{
			Code: errcode.DBConnectionError,
			Msg:  msg,
			Vars: []any{cfg.Path},
			Err:  fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err),
		}
	}

	msg := `Database Connection Failed

<em>Possible causes:</em>
  • PostgreSQL is not running
  • Database configuration is incorrect
  • Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Review connection settings:
     Host: %s
     Port: %d
     Database: %s
     User: %s`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{
			cfg.Host, cfg.Port,
			cfg.Host, cfg.User,
			cfg.Host, cfg.Port, cfg.Database, cfg.User,
		},
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			cfg.Host, cfg.Port, cfg.Database, err),
	}
}

// UnsupportedDriverError is returned for drivers other than
// postgres and sqlite.
func UnsupportedDriverError(driver string) error {
	msg := "Database driver <em>%s</em> is not supported, use postgres or sqlite"
	return &gn.Error{
		Code: errcode.DBUnsupportedDriverError,
		Msg:  msg,
		Vars: []any{driver},
		Err:  fmt.Errorf("unsupported database driver %q", driver),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  "Cannot drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
