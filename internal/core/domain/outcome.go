package domain

import "fmt"

// Outcome classifies a completed supervisor cycle
type Outcome string

const (
	// OutcomeHealthy means the probe succeeded and no counter was stored.
	OutcomeHealthy Outcome = "ok_healthy"
	// OutcomeCleared means the probe succeeded after recorded failures and
	// the counter was removed.
	OutcomeCleared Outcome = "ok_cleared"
	// OutcomeRetried means the probe failed under budget and the bounded
	// recovery action was invoked.
	OutcomeRetried Outcome = "retried"
	// OutcomeEscalated means the retry budget was exhausted and the terminal
	// recovery action was invoked.
	OutcomeEscalated Outcome = "escalated"
	// OutcomeSkipped means another cycle held the store lease; nothing ran.
	OutcomeSkipped Outcome = "skipped"
)

// CycleResult is what a single supervisor cycle reports back.
type CycleResult struct {
	Outcome Outcome
	// Count is the consecutive-failure count as persisted by this cycle
	// (0 for healthy outcomes, unchanged for escalated).
	Count int
	// Label is the probe's diagnostic identifier, e.g. the associated SSID.
	Label string
	// ActionErr records a recovery action that failed to launch. The cycle
	// itself still succeeded; the next tick re-attempts.
	ActionErr error
}

// Summary renders the single status line logged per cycle.
func (r CycleResult) Summary() string {
	switch r.Outcome {
	case OutcomeHealthy:
		if r.Label != "" {
			return fmt.Sprintf("healthy (%s)", r.Label)
		}
		return "healthy"
	case OutcomeCleared:
		if r.Label != "" {
			return fmt.Sprintf("healthy (%s), failure counter cleared", r.Label)
		}
		return "healthy, failure counter cleared"
	case OutcomeRetried:
		return fmt.Sprintf("unhealthy, recovery attempt %d", r.Count)
	case OutcomeEscalated:
		return fmt.Sprintf("unhealthy, retry budget exhausted at %d, escalating", r.Count)
	case OutcomeSkipped:
		return "skipped, another cycle holds the lease"
	default:
		return string(r.Outcome)
	}
}
