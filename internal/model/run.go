package model

import "time"

// RunStatus tracks an import run through its lifecycle. Terminal
// statuses never transition again.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
)

func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// ImportRun is the audit record for one import execution.
type ImportRun struct {
	ID         string
	SourceFile string
	Status     RunStatus

	RowsTotal     int
	RowsProcessed int
	RowsSkipped   int

	CentersCreated int
	CentersUpdated int
	TenantsCreated int
	TenantsUpdated int

	GeocodeSuccess int
	GeocodeFailed  int

	// QualityScore is 0-100, set when the run reaches a terminal
	// status. Nil while the run is still in flight.
	QualityScore *int

	Errors       []string
	ErrorMessage string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Duration is wall time from start to completion, nil until both
// timestamps exist.
func (r *ImportRun) Duration() *time.Duration {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return nil
	}
	d := r.CompletedAt.Sub(*r.StartedAt)
	return &d
}

// SuccessRate is processed rows over total rows, in percent.
func (r *ImportRun) SuccessRate() float64 {
	if r.RowsTotal == 0 {
		return 0
	}
	return float64(r.RowsProcessed) / float64(r.RowsTotal) * 100
}
