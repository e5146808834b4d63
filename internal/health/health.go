// Package health provides watchdog health reporting over HTTP.
package health

// SystemStatus represents the overall health state of the watchdog.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the full watchdog health report.
type Report struct {
	Status       SystemStatus `json:"status"`
	State        string       `json:"state"`
	FailureCount int          `json:"failure_count"`
	MaxAttempts  int          `json:"max_attempts"`
	LastOutcome  string       `json:"last_outcome,omitempty"`
	LastLabel    string       `json:"last_label,omitempty"`
	LastCycleAt  int64        `json:"last_cycle_at,omitempty"`

	// CyclesRecorded is the number of cycles retained in the history
	// store, bounded by the retention pruner.
	CyclesRecorded int `json:"cycles_recorded"`
}
