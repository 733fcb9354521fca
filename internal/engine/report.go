package engine

import (
	"time"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Report summarizes one run. A failed run returns the fields filled so far.
type Report struct {
	RunID   string
	Output  string
	Policy  linereduce.Policy
	Workers int

	// Map phase
	Files   int
	Lines   int64
	Emitted int64
	Bytes   int64
	Values  int64 // pairs that reached the intermediate store
	Dropped int64 // pairs discarded for an empty key
	Keys    int

	// Reduce phase and output
	Results      int
	Written      int
	BytesWritten int64
	MaxValue     int

	StartedAt           time.Time
	MapPhaseCompletedAt time.Time
	CompletedAt         time.Time
}

func (r *Report) addFile(stats FileStats) {
	r.Files++
	r.Lines += stats.Lines
	r.Emitted += stats.Emitted
	r.Bytes += stats.Bytes
}

// Duration is the wall time of the whole run.
func (r *Report) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}

	return r.CompletedAt.Sub(r.StartedAt)
}

// MapPhaseDuration is the time from start until the map barrier released.
func (r *Report) MapPhaseDuration() time.Duration {
	if r.MapPhaseCompletedAt.IsZero() {
		return 0
	}

	return r.MapPhaseCompletedAt.Sub(r.StartedAt)
}

// ReducePhaseDuration covers reduce and output writing.
func (r *Report) ReducePhaseDuration() time.Duration {
	if r.MapPhaseCompletedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}

	return r.CompletedAt.Sub(r.MapPhaseCompletedAt)
}
