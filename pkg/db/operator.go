package db

import (
	"context"

	"github.com/revatlas/revatlas/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the GORM handle
// for high-level components (SchemaManager, EventStore) to run their
// queries.
type Operator interface {
	// Connect opens a connection to the database configured by the
	// driver setting.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection.
	Close() error

	// DB returns the GORM handle, nil before Connect.
	DB() *gorm.DB

	// HasTables checks if the database already has revatlas tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all revatlas tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
