package lifecycle

import (
	"context"
	"time"
)

// Importer pulls events from an external knowledge graph and upserts
// them into the events store.
type Importer interface {
	// ImportAll fetches every page of matching records and upserts
	// them page by page. Remote failures end the run early and are
	// reported in ImportResult.Err; the returned error is non-nil only
	// when the store fails to commit a page.
	ImportAll(ctx context.Context) (*ImportResult, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	// RunID identifies the run in logs.
	RunID string

	// Imported is the number of events created or updated in
	// committed pages.
	Imported int

	// Skipped is the number of bindings that did not produce a valid
	// event (no name, unparseable or too early start date).
	Skipped int

	// Pages is the number of pages that were fetched and committed.
	Pages int

	// Complete is true when the run reached the last page.
	Complete bool

	// Err is the reason the run stopped before the last page:
	// exhausted retries, a non-success status, or cancellation.
	Err error

	// Duration of the run.
	Duration time.Duration
}
