package export

import (
	"time"

	"github.com/google/uuid"
)

// Trigger identifies how a run was started
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Stage is the pipeline stage a run (or one export type within it) is in
type Stage string

const (
	StageCheckingPreconditions Stage = "CHECKING_PRECONDITIONS"
	StageExtracting            Stage = "EXTRACTING"
	StageWriting               Stage = "WRITING"
	StageUploading             Stage = "UPLOADING"
)

// Outcome is the terminal result of one run across all export types
type Outcome string

const (
	OutcomeCompleted      Outcome = "COMPLETED"
	OutcomePartialFailure Outcome = "PARTIAL_FAILURE"
	OutcomeTotalFailure   Outcome = "TOTAL_FAILURE"
)

// TypeResult tracks the per-type outcome within a run. Types succeed or fail
// independently.
type TypeResult struct {
	TypeID      uuid.UUID
	Name        string
	Kind        Kind
	Stage       Stage // last stage reached
	Skipped     bool  // already exported for this date, not re-run
	Produced    bool  // a file was written (false for empty data sets)
	RecordCount int
	FileName    string
	FilePath    string
	ObjectKey   string
	FileSize    int64
	Err         error
}

// Failed reports whether this export type failed
func (r TypeResult) Failed() bool {
	return r.Err != nil
}

// Report is the transient record of one pipeline execution
type Report struct {
	Trigger    Trigger
	Date       time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome
	Results    []TypeResult
}

// FailedTypeNames returns the names of export types that failed, in run order
func (r *Report) FailedTypeNames() []string {
	var names []string
	for _, res := range r.Results {
		if res.Failed() {
			names = append(names, res.Name)
		}
	}
	return names
}

// SucceededCount returns the number of export types that did not fail
func (r *Report) SucceededCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Failed() {
			n++
		}
	}
	return n
}

// ComputeOutcome derives the overall outcome from the per-type results:
// COMPLETED only if every type succeeded, TOTAL_FAILURE if none did,
// PARTIAL_FAILURE otherwise. An empty result set is a total failure.
func (r *Report) ComputeOutcome() Outcome {
	if len(r.Results) == 0 {
		return OutcomeTotalFailure
	}
	failed := len(r.FailedTypeNames())
	switch {
	case failed == 0:
		return OutcomeCompleted
	case failed == len(r.Results):
		return OutcomeTotalFailure
	default:
		return OutcomePartialFailure
	}
}
