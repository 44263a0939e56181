package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// NotConnectedError creates an error for when schema operations
// are attempted without database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// CreateSchemaError creates an error for when schema creation fails.
func CreateSchemaError(err error) error {
	msg := `Failed to create database schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Conflicting table definitions

<em>How to fix:</em>
  1. Check that the user may create tables
  2. Run <em>revatlas create --force</em> to start from scratch`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for when schema migration fails.
func MigrateSchemaError(err error) error {
	msg := `Failed to migrate database schema

<em>How to fix:</em>
  1. Check the log for the failing statement
  2. Back up the events table and run <em>revatlas create --force</em>`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}
