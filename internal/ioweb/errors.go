package ioweb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// ServerError is returned when the HTTP server cannot start or stops
// unexpectedly.
func ServerError(addr string, err error) error {
	return &gn.Error{
		Code: errcode.WebServerError,
		Msg:  "HTTP server on <em>%s</em> failed",
		Vars: []any{addr},
		Err:  fmt.Errorf("http server %s: %w", addr, err),
	}
}
