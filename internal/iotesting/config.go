// Package iotesting provides shared test utilities for tests that need
// a real events store.
package iotesting

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/revatlas/revatlas/internal/iodb"
	"github.com/revatlas/revatlas/internal/ioschema"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/db"
)

// GetTestConfig returns a configuration suitable for tests: an SQLite
// file in a temporary directory, no politeness delay and millisecond
// backoff.
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabasePath(filepath.Join(t.TempDir(), "revatlas_test.sqlite")),
		config.OptImportPageDelay(0),
		config.OptImportInitialBackoff(time.Millisecond),
		config.OptImportTimeout(5 * time.Second),
		config.OptLogDestination("stderr"),
	})
	return cfg
}

// NewOperator connects to the SQLite database of cfg and creates the
// schema. The connection is closed when the test finishes.
func NewOperator(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()
	ctx := context.Background()

	op := iodb.NewOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Fatalf("cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	if err := ioschema.NewManager(op).Create(ctx); err != nil {
		t.Fatalf("cannot create test schema: %v", err)
	}
	return op
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NullString is a shortcut for a valid sql.NullString.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
