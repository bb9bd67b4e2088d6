package domain

import "time"

// RunStatus is the outcome of one analysis attempt
type RunStatus string

// run statuses
const (
	RunReady      RunStatus = "ready"
	RunFailed     RunStatus = "failed"
	RunSuperseded RunStatus = "superseded" // a newer submission replaced it before it completed
)

// Run is operational metadata about one analysis attempt.
// It never carries the analysis result itself.
type Run struct {
	ID         string
	URL        string
	Store      string // registrable domain of the submitted URL, e.g. apple.com
	Token      uint64
	Status     RunStatus
	ErrorKind  string
	Duration   time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
}
