package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("postgres", func(t *testing.T) {
		cfg := config.New().Database
		err := ConnectionError(&cfg, cause)

		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
		assert.Contains(t, gnErr.Msg, "pg_isready")
		assert.Len(t, gnErr.Vars, 8)
		assert.ErrorIs(t, gnErr.Err, cause)
		assert.Contains(t, gnErr.Err.Error(), "localhost:5432/revatlas")
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.DatabaseConfig{Driver: "sqlite", Path: "/no/such/dir/db.sqlite"}
		err := ConnectionError(&cfg, cause)

		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, []any{"/no/such/dir/db.sqlite"}, gnErr.Vars)
		assert.ErrorIs(t, gnErr.Err, cause)
	})
}

func TestSmallErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"unsupported driver", UnsupportedDriverError("mysql"), errcode.DBUnsupportedDriverError},
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError},
		{"drop table", DropTableError("events", errors.New("locked")), errcode.DBDropTableError},
	}

	for _, tt := range tests {
		var gnErr *gn.Error
		require.True(t, errors.As(tt.err, &gnErr), tt.name)
		assert.Equal(t, tt.code, gnErr.Code, tt.name)
		assert.NotEmpty(t, gnErr.Msg, tt.name)
		assert.Error(t, gnErr.Err, tt.name)
	}
}
