// Package supervisor implements the bounded-retry recovery cycle.
//
// Each cycle is a bounded, synchronous sequence: probe, read the persisted
// consecutive-failure count, decide, persist, act. The ordering is the safety
// argument: the incremented count is persisted before the bounded action
// launches, so an interrupted cycle is at worst retried and can never
// silently exceed the attempt budget.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hasec/netwatch/internal/action"
	"github.com/hasec/netwatch/internal/core/domain"
	"github.com/hasec/netwatch/internal/infra/storage"
	"github.com/hasec/netwatch/internal/metrics"
	"github.com/hasec/netwatch/internal/probe"
)

// DefaultMaxAttempts is the reference retry budget.
const DefaultMaxAttempts = 5

// DefaultLeaseTTL bounds how long a crashed cycle's lease blocks successors.
const DefaultLeaseTTL = 10 * time.Minute

// Supervisor runs one recovery cycle per scheduler tick. It holds no state
// between cycles; everything crosses invocations through the counter store.
type Supervisor struct {
	probe       probe.Probe
	store       storage.CounterStore
	bounded     action.Action
	escalated   action.Action
	history     storage.HistoryRepository
	maxAttempts int
	leaseTTL    time.Duration
	log         *slog.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithMaxAttempts overrides the retry budget.
func WithMaxAttempts(n int) Option {
	return func(s *Supervisor) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithHistory records every completed cycle in the given repository.
func WithHistory(repo storage.HistoryRepository) Option {
	return func(s *Supervisor) { s.history = repo }
}

// WithLeaseTTL overrides the overlap lease TTL.
func WithLeaseTTL(ttl time.Duration) Option {
	return func(s *Supervisor) {
		if ttl > 0 {
			s.leaseTTL = ttl
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Supervisor) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Supervisor.
func New(p probe.Probe, store storage.CounterStore, bounded, escalated action.Action, opts ...Option) *Supervisor {
	s := &Supervisor{
		probe:       p,
		store:       store,
		bounded:     bounded,
		escalated:   escalated,
		maxAttempts: DefaultMaxAttempts,
		leaseTTL:    DefaultLeaseTTL,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxAttempts returns the configured retry budget.
func (s *Supervisor) MaxAttempts() int {
	return s.maxAttempts
}

// Cycle runs one supervisor cycle.
//
// The escalation boundary is fixed as: the stored count is checked against
// the budget BEFORE incrementing. With a budget of 5, failures 1..5 run the
// bounded action with counts 1..5 and the 6th consecutive failure escalates.
//
// A returned error means the cycle aborted on its own I/O before taking any
// action; the next scheduled tick retries. Probe failures are not errors,
// they are the unhealthy branch.
func (s *Supervisor) Cycle(ctx context.Context) (domain.CycleResult, error) {
	if err := s.store.TryLock(ctx, s.leaseTTL); err != nil {
		if errors.Is(err, storage.ErrLockHeld) {
			res := domain.CycleResult{Outcome: domain.OutcomeSkipped}
			s.report(res)
			return res, nil
		}
		metrics.CycleErrorsTotal.Inc()
		return domain.CycleResult{}, fmt.Errorf("failed to take cycle lease: %w", err)
	}
	defer func() {
		if err := s.store.Unlock(ctx); err != nil {
			s.log.Warn("Failed to release cycle lease", "error", err)
		}
	}()

	start := time.Now()
	probeRes := s.probe.Check(ctx)
	metrics.ProbeDuration.WithLabelValues(s.probe.Name()).Observe(time.Since(start).Seconds())

	var res domain.CycleResult
	var prior int
	var err error
	if probeRes.Healthy {
		res, prior, err = s.healthyCycle(ctx, probeRes)
	} else {
		res, prior, err = s.unhealthyCycle(ctx, probeRes)
	}
	if err != nil {
		metrics.CycleErrorsTotal.Inc()
		return domain.CycleResult{}, err
	}

	metrics.CyclesTotal.WithLabelValues(string(res.Outcome)).Inc()
	metrics.FailureCount.Set(float64(res.Count))
	s.logTransition(prior, res)
	s.report(res)
	s.record(ctx, res, probeRes)
	return res, nil
}

// healthyCycle clears the counter if one is stored. Corrupt counter content
// is also cleared here: the system is demonstrably healthy, so resetting the
// slot restores the invariant without acting on unknown state. The second
// return is the prior count, for the state transition log.
func (s *Supervisor) healthyCycle(ctx context.Context, probeRes domain.ProbeResult) (domain.CycleResult, int, error) {
	count, err := s.store.Read(ctx)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return domain.CycleResult{}, 0, fmt.Errorf("failed to read failure count: %w", err)
	}
	corrupt := errors.Is(err, storage.ErrCorrupt)

	if count == 0 && !corrupt {
		return domain.CycleResult{Outcome: domain.OutcomeHealthy, Label: probeRes.Label}, count, nil
	}

	if err := s.store.Clear(ctx); err != nil {
		return domain.CycleResult{}, 0, fmt.Errorf("failed to clear failure count: %w", err)
	}
	return domain.CycleResult{Outcome: domain.OutcomeCleared, Label: probeRes.Label}, count, nil
}

// unhealthyCycle consumes one attempt from the budget or escalates.
func (s *Supervisor) unhealthyCycle(ctx context.Context, probeRes domain.ProbeResult) (domain.CycleResult, int, error) {
	count, err := s.store.Read(ctx)
	if err != nil {
		// Includes storage.ErrCorrupt: never base a recovery action on a
		// count we cannot trust.
		return domain.CycleResult{}, 0, fmt.Errorf("failed to read failure count: %w", err)
	}

	if probeRes.Err != nil {
		s.log.Warn("Probe could not execute, treating as unhealthy", "error", probeRes.Err)
	}

	if count >= s.maxAttempts {
		// The counter is deliberately left in place: if the terminal action
		// is a reboot, the conventionally volatile counter path resets with
		// the host, not by our hand.
		res := domain.CycleResult{Outcome: domain.OutcomeEscalated, Count: count, Label: probeRes.Label}
		res.ActionErr = s.invoke(ctx, "escalated", s.escalated)
		return res, count, nil
	}

	next := count + 1
	// Persist before acting: crash-after-persist consumes the attempt,
	// crash-before-persist replays it. Neither can overrun the budget.
	if err := s.store.Write(ctx, next); err != nil {
		return domain.CycleResult{}, 0, fmt.Errorf("failed to persist failure count: %w", err)
	}

	res := domain.CycleResult{Outcome: domain.OutcomeRetried, Count: next, Label: probeRes.Label}
	res.ActionErr = s.invoke(ctx, "bounded", s.bounded)
	return res, count, nil
}

// stateAfter maps a completed cycle onto the resulting watchdog state.
func (s *Supervisor) stateAfter(res domain.CycleResult) State {
	switch res.Outcome {
	case domain.OutcomeEscalated:
		return StateEscalated
	case domain.OutcomeRetried:
		return DeriveState(res.Count, s.maxAttempts)
	default:
		return StateHealthy
	}
}

// logTransition records the state change between the pre-cycle count and the
// cycle's result. The transition table is the guard: an invalid transition
// here means the cycle logic and the state machine have drifted apart.
func (s *Supervisor) logTransition(prior int, res domain.CycleResult) {
	tr := NewTransition(DeriveState(prior, s.maxAttempts), s.stateAfter(res), string(res.Outcome))
	if tr.From == tr.To {
		return
	}
	if !tr.IsValid() {
		s.log.Error("Unexpected state transition",
			"from", string(tr.From), "to", string(tr.To), "reason", tr.Reason)
		return
	}
	s.log.Info("State changed",
		"from", string(tr.From), "to", string(tr.To), "reason", tr.Reason)
}

// invoke launches a recovery action. Launch failure is logged and reported
// on the result, never retried within the cycle.
func (s *Supervisor) invoke(ctx context.Context, kind string, act action.Action) error {
	err := act.Invoke(ctx)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues(kind, "error").Inc()
		s.log.Error("Recovery action failed to launch",
			"kind", kind, "action", act.Describe(), "error", err)
		return err
	}
	metrics.ActionsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

// report emits the one summary line per cycle that operators scan for.
func (s *Supervisor) report(res domain.CycleResult) {
	switch res.Outcome {
	case domain.OutcomeHealthy, domain.OutcomeCleared:
		s.log.Info("Cycle complete", "outcome", res.Outcome, "status", res.Summary())
	case domain.OutcomeSkipped:
		s.log.Warn("Cycle skipped", "outcome", res.Outcome, "status", res.Summary())
	default:
		s.log.Warn("Cycle complete", "outcome", res.Outcome, "status", res.Summary(),
			"count", res.Count, "max_attempts", s.maxAttempts)
	}
}

// record appends the cycle to the audit history, best effort.
func (s *Supervisor) record(ctx context.Context, res domain.CycleResult, probeRes domain.ProbeResult) {
	if s.history == nil || res.Outcome == domain.OutcomeSkipped {
		return
	}

	errMsg := ""
	if probeRes.Err != nil {
		errMsg = probeRes.Err.Error()
	} else if res.ActionErr != nil {
		errMsg = res.ActionErr.Error()
	}

	rec := &domain.CycleRecord{
		ID:        uuid.New().String(),
		Outcome:   res.Outcome,
		Count:     res.Count,
		Label:     res.Label,
		Error:     errMsg,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.history.Add(ctx, rec); err != nil {
		s.log.Warn("Failed to record cycle history", "error", err)
	}
}
