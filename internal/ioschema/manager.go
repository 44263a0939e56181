// Package ioschema creates and migrates the events table through GORM
// AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/revatlas/revatlas/pkg/db"
	"github.com/revatlas/revatlas/pkg/lifecycle"
	"github.com/revatlas/revatlas/pkg/schema"
)

type manager struct {
	operator db.Operator
}

// NewManager returns a SchemaManager working on the connection of op.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

func (m *manager) Create(ctx context.Context) error {
	return m.autoMigrate(ctx, "Schema created", CreateSchemaError)
}

func (m *manager) Migrate(ctx context.Context) error {
	return m.autoMigrate(ctx, "Schema migrated", MigrateSchemaError)
}

// autoMigrate is shared by Create and Migrate: AutoMigrate creates
// missing tables and indexes and adds missing columns, so the two
// differ only in how a failure is explained to the user.
func (m *manager) autoMigrate(
	ctx context.Context,
	done string,
	wrap func(error) error,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return wrap(err)
	}

	slog.Info(done,
		"dialect", gormDB.Dialector.Name(),
		"models", len(schema.AllModels()),
	)
	return nil
}
