package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied for schema public")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"create", CreateSchemaError(cause), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(cause), errcode.SchemaMigrateError},
	}

	for _, tt := range tests {
		var gnErr *gn.Error
		require.True(t, errors.As(tt.err, &gnErr), tt.name)
		assert.Equal(t, tt.code, gnErr.Code, tt.name)
		assert.Contains(t, gnErr.Msg, "revatlas create --force", tt.name)
		assert.ErrorIs(t, gnErr.Err, cause, tt.name)
	}

	var gnErr *gn.Error
	require.True(t, errors.As(NotConnectedError(), &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
