package export

import (
	"context"
	"time"
)

// RetryState marks that a run failed entirely and must be retried later.
// It exists only between a total failure and the next fully successful run;
// the attempt count is monotonically non-decreasing until success clears it.
type RetryState struct {
	Reason    string
	Timestamp time.Time
	Attempts  int
}

// RetryStateRepository persists the process-wide retry marker
type RetryStateRepository interface {
	// Get returns the current state, or nil when no retry is pending.
	Get(ctx context.Context) (*RetryState, error)

	// Save stores the state, replacing any existing one.
	Save(ctx context.Context, state *RetryState) error

	// Clear removes the state. Clearing an absent state is not an error.
	Clear(ctx context.Context) error
}
