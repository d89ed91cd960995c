package export

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryCapacity caps the ledger at the most recent entries by created_at.
// Eviction is strictly oldest-created-first.
const HistoryCapacity = 1000

// Status is the terminal outcome of one export attempt
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsValid checks if the status is a known export status
func (s Status) IsValid() bool {
	return s == StatusCompleted || s == StatusFailed
}

// HistoryEntry is one append-only record of a past export attempt. Entries
// are never updated in place: a re-run appends a new entry rather than
// replacing the old one.
type HistoryEntry struct {
	ID         uuid.UUID
	ExportType Kind
	ExportName string
	Date       time.Time // target date of the export, not the attempt time
	FileName   string
	FilePath   string // local path or object key
	Status     Status
	FileSize   int64
	FileExists bool // whether the local file existed when the entry was written
	CreatedAt  time.Time
}

// Statistics aggregates the ledger for reporting
type Statistics struct {
	Total      int64            `json:"total"`
	Succeeded  int64            `json:"succeeded"`
	Failed     int64            `json:"failed"`
	TotalBytes int64            `json:"total_bytes"`
	ByType     map[string]int64 `json:"by_type"`
	ByDate     map[string]int64 `json:"by_date"`
}

// HistoryRepository persists the export history ledger
type HistoryRepository interface {
	// Record appends an entry and evicts the oldest entries beyond
	// HistoryCapacity.
	Record(ctx context.Context, entry *HistoryEntry) error

	// Exists reports whether a completed export is already recorded for
	// (type, date, name).
	Exists(ctx context.Context, exportType Kind, date time.Time, exportName string) (bool, error)

	// List returns the most recent entries, created_at descending.
	List(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Statistics aggregates the current ledger contents.
	Statistics(ctx context.Context) (*Statistics, error)
}
