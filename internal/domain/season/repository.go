package season

import "context"

// Store hands out one session per run.
type Store interface {
	Open(ctx context.Context) (Session, error)
}

// Session merges a batch atomically: either every row is written or none is.
// Close releases the underlying connection and must be called on every path.
type Session interface {
	UpsertSeason(ctx context.Context, batch Batch) error
	Close() error
}
