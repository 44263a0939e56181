package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// CancelledError is set as the run error when the import is cancelled
// between pages.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  "Import was cancelled",
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}

// StoreError wraps a failure to commit a page.
func StoreError(page int, err error) error {
	return &gn.Error{
		Code: errcode.ImportStoreError,
		Msg:  "Cannot store page <em>%d</em> of imported events",
		Vars: []any{page},
		Err:  fmt.Errorf("store page %d: %w", page, err),
	}
}

// ScheduleError is returned for a cron expression that cannot be parsed.
func ScheduleError(expr string, err error) error {
	return &gn.Error{
		Code: errcode.ImportScheduleError,
		Msg:  "Cannot use <em>%s</em> as import schedule",
		Vars: []any{expr},
		Err:  fmt.Errorf("import schedule %q: %w", expr, err),
	}
}
