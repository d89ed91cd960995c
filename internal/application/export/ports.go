package export

import (
	"context"
	"time"
)

// ConnectionStatus is the structured result of a storage connection test
type ConnectionStatus struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Uploader pushes a staged local file to object storage
type Uploader interface {
	// Upload validates the local file then uploads it to
	// [folder/]directory/filename in the bucket, with bounded retries.
	// Returns false with an error when the file never made it.
	Upload(ctx context.Context, bucket, filename, localPath, directory, folder string) (bool, error)

	// TestConnection performs a lightweight capability check (listing
	// accessible buckets) and reports a human-readable reason on failure.
	TestConnection(ctx context.Context) ConnectionStatus
}

// RetryScheduler is the orchestrator's view of the host scheduler
type RetryScheduler interface {
	// ScheduleRetry arranges exactly one re-invocation of the scheduled
	// run after the delay. A later call replaces a pending retry.
	ScheduleRetry(ctx context.Context, delay time.Duration) error

	// CancelRetry cancels a pending retry, if any.
	CancelRetry(ctx context.Context)

	// ArmDaily arms the recurring daily schedule. Callers are expected to
	// verify storage connectivity first.
	ArmDaily(ctx context.Context) error
}

// RunLock serializes pipeline work per (export type, date) so that a
// scheduled run and a concurrently triggered manual run cannot interleave
// writes to the same staging file.
type RunLock interface {
	// Acquire takes the lease for the key, returning a release function.
	// Returns an error when another holder owns it.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// EmailNotifier delivers alert emails when notifications are enabled
type EmailNotifier interface {
	Send(ctx context.Context, subject, body string) error
}
