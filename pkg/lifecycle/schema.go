package lifecycle

import "context"

// SchemaManager owns the layout of the events table.
type SchemaManager interface {
	// Create builds the events table on an empty database. Callers
	// drop existing tables first when the user asks for a clean start.
	Create(ctx context.Context) error

	// Migrate brings an existing events table up to the current model
	// without touching stored rows. Running it twice is a no-op.
	Migrate(ctx context.Context) error
}
