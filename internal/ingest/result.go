// ABOUTME: Ingest batch result type shared by every provider path.
// ABOUTME: Carries a batch id, status, and per-category processed counts.
package ingest

import "github.com/google/uuid"

// Statuses reported by an ingest run.
const (
	StatusOK     = "ok"
	StatusDryRun = "dry_run"
)

// Result summarizes one ingest batch. Processed keys depend on the
// provider: apple health reports metrics/workouts/skipped, oura reports
// sleep/readiness/activity/skipped, fit reports workouts/skipped.
type Result struct {
	Status    string         `json:"status"`
	BatchID   string         `json:"batch_id"`
	Processed map[string]int `json:"processed"`
}

func newResult() *Result {
	return &Result{
		Status:    StatusOK,
		BatchID:   uuid.NewString(),
		Processed: make(map[string]int),
	}
}
