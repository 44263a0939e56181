package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/revatlas/revatlas/pkg/errcode"
)

// NotConnectedError is returned when the store has no database handle.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Events store used without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// MissingFilterError is returned when events are requested without
// any country filter.
func MissingFilterError() error {
	return &gn.Error{
		Code: errcode.StoreMissingFilterError,
		Msg:  "Provide <em>countryIso</em> or <em>country</em> to list events",
		Err:  fmt.Errorf("countryIso or country filter is required"),
	}
}

// QueryError wraps a failed read.
func QueryError(op string, err error) error {
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  "Cannot query events (%s)",
		Vars: []any{op},
		Err:  fmt.Errorf("query %s: %w", op, err),
	}
}

// SaveError wraps a failed insert or update.
func SaveError(name string, err error) error {
	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  "Cannot save event <em>%s</em>",
		Vars: []any{name},
		Err:  fmt.Errorf("save event %q: %w", name, err),
	}
}

// CommitError wraps a failed transaction.
func CommitError(err error) error {
	return &gn.Error{
		Code: errcode.StoreCommitError,
		Msg:  "Cannot commit events to the database",
		Err:  fmt.Errorf("commit: %w", err),
	}
}
