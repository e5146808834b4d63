package health

import (
	"context"
	"sync"
	"time"

	"github.com/hasec/netwatch/internal/infra/storage"
	"github.com/hasec/netwatch/internal/supervisor"
)

// Monitor derives the watchdog's health from the persisted counter and the
// cycle history.
type Monitor struct {
	store       storage.CounterStore
	history     storage.HistoryRepository
	maxAttempts int
	lastCheck   time.Time
	lastReport  Report
	mu          sync.Mutex
}

// NewMonitor creates a new health monitor. The history repository may be nil.
func NewMonitor(store storage.CounterStore, history storage.HistoryRepository, maxAttempts int) *Monitor {
	if maxAttempts <= 0 {
		maxAttempts = supervisor.DefaultMaxAttempts
	}
	return &Monitor{
		store:       store,
		history:     history,
		maxAttempts: maxAttempts,
	}
}

// CheckHealth builds the current health report.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering the store from scrapers
	if time.Since(m.lastCheck) < 10*time.Second && m.lastReport.Status != "" {
		return m.lastReport
	}

	report := Report{
		Status:      StatusHealthy,
		MaxAttempts: m.maxAttempts,
	}

	count, err := m.store.Read(ctx)
	if err != nil {
		// Unknown counter state: degraded, not critical. The supervisor
		// refuses to act on it; operators should look at the store.
		report.Status = StatusDegraded
		report.State = string(supervisor.StateHealthy)
	} else {
		report.FailureCount = count
		state := supervisor.DeriveState(count, m.maxAttempts)
		report.State = string(state)
		switch state {
		case supervisor.StateDegraded:
			report.Status = StatusDegraded
		case supervisor.StateExhausted, supervisor.StateEscalated:
			report.Status = StatusCritical
		}
	}

	if m.history != nil {
		if recent, err := m.history.Recent(ctx, 1); err == nil && len(recent) > 0 {
			report.LastOutcome = string(recent[0].Outcome)
			report.LastLabel = recent[0].Label
			report.LastCycleAt = recent[0].CreatedAt
		}
		if total, err := m.history.Count(ctx); err == nil {
			report.CyclesRecorded = total
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
