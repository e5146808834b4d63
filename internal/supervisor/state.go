package supervisor

import (
	"time"
)

// State is the logical watchdog state, re-derived each cycle from the stored
// count and never held in memory between invocations.
type State string

const (
	// StateHealthy means no failure count is stored.
	StateHealthy State = "healthy"
	// StateDegraded means failures are recorded but budget remains.
	StateDegraded State = "degraded"
	// StateExhausted means the budget is spent; the next failure escalates.
	StateExhausted State = "exhausted"
	// StateEscalated means the terminal action has been triggered this cycle.
	StateEscalated State = "escalated"
)

// DeriveState maps a stored count onto the watchdog state.
func DeriveState(count, maxAttempts int) State {
	switch {
	case count <= 0:
		return StateHealthy
	case count < maxAttempts:
		return StateDegraded
	default:
		return StateExhausted
	}
}

// ValidTransitions defines allowed state transitions.
// Key is the current state, value is the list of valid next states.
var ValidTransitions = map[State][]State{
	StateHealthy:   {StateHealthy, StateDegraded},
	StateDegraded:  {StateHealthy, StateDegraded, StateExhausted},
	StateExhausted: {StateHealthy, StateEscalated},
	// After escalation the medium decides: a reboot wipes a volatile
	// counter path back to healthy, a persistent store stays exhausted.
	StateEscalated: {StateHealthy, StateExhausted, StateEscalated},
}

// CanTransition checks if a transition from one state to another is valid.
func CanTransition(from, to State) bool {
	validTargets, ok := ValidTransitions[from]
	if !ok {
		return false
	}

	for _, target := range validTargets {
		if target == to {
			return true
		}
	}
	return false
}

// Transition represents a state change with metadata.
type Transition struct {
	From      State
	To        State
	Reason    string
	Timestamp time.Time
}

// NewTransition creates a new transition record.
func NewTransition(from, to State, reason string) Transition {
	return Transition{
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// IsValid returns true if this transition is allowed by the state machine.
func (t Transition) IsValid() bool {
	return CanTransition(t.From, t.To)
}

// StateDescription returns a human-readable description of a state.
func StateDescription(s State) string {
	switch s {
	case StateHealthy:
		return "Healthy - no consecutive failures recorded"
	case StateDegraded:
		return "Degraded - failures recorded, bounded recovery in progress"
	case StateExhausted:
		return "Exhausted - retry budget spent, next failure escalates"
	case StateEscalated:
		return "Escalated - terminal recovery action triggered"
	default:
		return "Unknown state"
	}
}
