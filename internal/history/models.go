package history

import (
	"time"

	"recode/internal/services"
)

// Outcome is the result recorded for one file.
type Outcome string

const (
	// OutcomeUnchanged means the file already matched the plan.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeMoved means the file needed no re-encode but was moved to the output directory.
	OutcomeMoved Outcome = "moved"
	// OutcomeEncoded means ffmpeg produced a new file.
	OutcomeEncoded Outcome = "encoded"
	// OutcomeFailed marks errors worth retrying.
	OutcomeFailed Outcome = Outcome(services.OutcomeFailed)
	// OutcomeInvalid marks input that will not succeed without intervention.
	OutcomeInvalid Outcome = Outcome(services.OutcomeInvalid)
)

// Successful reports whether the outcome allows later runs to skip the file.
func (o Outcome) Successful() bool {
	switch o {
	case OutcomeUnchanged, OutcomeMoved, OutcomeEncoded:
		return true
	default:
		return false
	}
}

// FailureOutcome maps a processing error to the recorded outcome.
func FailureOutcome(err error) Outcome {
	return Outcome(services.FailureOutcome(err))
}

// FileState identifies one version of a file on disk.
type FileState struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Entry is one ledger row.
type Entry struct {
	ID         int64
	RunID      string
	Source     FileState
	Output     FileState
	Outcome    Outcome
	AnyChange  bool
	Arguments  string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
