package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be opened
// for writing.
func CreateLogFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  "Cannot write logs to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("open log file %s: %w", path, err),
	}
}
