package models

import "time"

// ProgramSummary counts submissions for one program within a run.
type ProgramSummary struct {
	ProgramID int64  `json:"program_id"`
	Name      string `json:"name"`
	Mode      string `json:"mode"`
	Attempted int    `json:"attempted"`
	Created   int    `json:"created"`
	Failed    int    `json:"failed"`
	DryRun    int    `json:"dry_run,omitempty"`
}

// RunSummary describes one generator run.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	Seed       uint64           `json:"seed"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Canceled   bool             `json:"canceled,omitempty"`
	Programs   []ProgramSummary `json:"programs"`
}

// Totals sums the per-program counters.
func (r RunSummary) Totals() (attempted, created, failed int) {
	for _, p := range r.Programs {
		attempted += p.Attempted
		created += p.Created
		failed += p.Failed
	}
	return attempted, created, failed
}
