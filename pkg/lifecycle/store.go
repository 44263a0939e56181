package lifecycle

import (
	"context"

	"github.com/revatlas/revatlas/pkg/schema"
)

// EventStore is a relational store of events with lookups needed for
// upserts and the filters used by the query gateway.
type EventStore interface {
	// InTx runs fn inside one transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(EventTx) error) error

	// FindEvents returns events that match the filter, newest first.
	FindEvents(ctx context.Context, f EventFilter) ([]schema.Event, error)

	// EventByID returns one event by its surrogate key.
	EventByID(ctx context.Context, id uint) (*schema.Event, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)
}

// EventTx gives access to events inside a transaction.
// Lookups return nil without error when nothing matches.
type EventTx interface {
	// ByExternalID finds an event by its Wikidata QID.
	ByExternalID(id string) (*schema.Event, error)

	// ByNameYear finds an event with exactly the same name that
	// started in the given year.
	ByNameYear(name string, year int) (*schema.Event, error)

	// Save inserts a new event or updates an existing one.
	Save(ev *schema.Event) error
}

// EventFilter selects events by country.
type EventFilter struct {
	// CountryISO is an alpha-2 or alpha-3 code, case-insensitive.
	CountryISO string

	// Country is a free-text country name matched after normalization.
	Country string

	// MinYear drops events that started before this year.
	MinYear int
}

// IsEmpty is true when neither country filter is set.
func (f EventFilter) IsEmpty() bool {
	return f.CountryISO == "" && f.Country == ""
}
