package history

import "time"

// Status is the outcome of a recorded run
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record describes one engine run
type Record struct {
	ID       string   `json:"id"`
	Version  string   `json:"version"`
	Status   Status   `json:"status"`
	Executor string   `json:"executor"`
	Inputs   []string `json:"inputs"`
	Output   string   `json:"output"`
	Policy   string   `json:"policy"`
	Workers  int      `json:"workers"`

	// Counts
	Files   int   `json:"files"`
	Lines   int64 `json:"lines"`
	Bytes   int64 `json:"bytes"`
	Keys    int   `json:"keys"`
	Results int   `json:"results"`
	Written int   `json:"written"`

	StartedAt           time.Time `json:"started_at"`
	MapPhaseCompletedAt time.Time `json:"map_phase_completed_at,omitempty"`
	CompletedAt         time.Time `json:"completed_at,omitempty"`
	Error               string    `json:"error,omitempty"`

	// Computed durations (in seconds)
	Duration            float64 `json:"duration,omitempty"`
	MapPhaseDuration    float64 `json:"map_phase_duration,omitempty"`
	ReducePhaseDuration float64 `json:"reduce_phase_duration,omitempty"`
}

// ComputeDurations calculates and populates duration fields
func (r *Record) ComputeDurations() {
	if r.StartedAt.IsZero() {
		return
	}

	if !r.CompletedAt.IsZero() {
		r.Duration = r.CompletedAt.Sub(r.StartedAt).Seconds()
	}

	if !r.MapPhaseCompletedAt.IsZero() {
		r.MapPhaseDuration = r.MapPhaseCompletedAt.Sub(r.StartedAt).Seconds()

		if !r.CompletedAt.IsZero() {
			r.ReducePhaseDuration = r.CompletedAt.Sub(r.MapPhaseCompletedAt).Seconds()
		}
	}
}
