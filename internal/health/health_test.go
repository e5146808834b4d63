package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/hasec/netwatch/internal/core/domain"
	"github.com/hasec/netwatch/internal/infra/storage/memory"
)

func TestMonitor_CheckHealth_Healthy(t *testing.T) {
	store := memory.NewMemoryStorage()
	mon := NewMonitor(memory.NewCounterStore(store), nil, 5)

	report := mon.CheckHealth(context.Background())
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if report.FailureCount != 0 {
		t.Errorf("expected 0 failures, got %d", report.FailureCount)
	}
}

func TestMonitor_CheckHealth_Degraded(t *testing.T) {
	store := memory.NewMemoryStorage()
	counter := memory.NewCounterStore(store)
	if err := counter.Write(context.Background(), 2); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	mon := NewMonitor(counter, nil, 5)
	report := mon.CheckHealth(context.Background())
	if report.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}
	if report.State != "degraded" {
		t.Errorf("expected state degraded, got %s", report.State)
	}
}

func TestMonitor_CheckHealth_Critical(t *testing.T) {
	store := memory.NewMemoryStorage()
	counter := memory.NewCounterStore(store)
	if err := counter.Write(context.Background(), 5); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	mon := NewMonitor(counter, nil, 5)
	report := mon.CheckHealth(context.Background())
	if report.Status != StatusCritical {
		t.Errorf("expected critical, got %s", report.Status)
	}
}

func TestMonitor_IncludesLastCycle(t *testing.T) {
	store := memory.NewMemoryStorage()
	history := memory.NewHistoryRepo(store)
	_ = history.Add(context.Background(), &domain.CycleRecord{
		ID:        "rec-1",
		Outcome:   domain.OutcomeRetried,
		Count:     1,
		Label:     "homenet",
		CreatedAt: 1000,
	})

	mon := NewMonitor(memory.NewCounterStore(store), history, 5)
	report := mon.CheckHealth(context.Background())
	if report.LastOutcome != string(domain.OutcomeRetried) {
		t.Errorf("expected last outcome retried, got %s", report.LastOutcome)
	}
	if report.LastLabel != "homenet" {
		t.Errorf("expected last label homenet, got %s", report.LastLabel)
	}
	if report.CyclesRecorded != 1 {
		t.Errorf("expected 1 recorded cycle, got %d", report.CyclesRecorded)
	}
}

func TestServer_HandleHealth(t *testing.T) {
	store := memory.NewMemoryStorage()
	counter := memory.NewCounterStore(store)
	if err := counter.Write(context.Background(), 5); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	srv := NewServer(NewMonitor(counter, nil, 5), 0)
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	if rec.Code != 503 {
		t.Errorf("expected 503 when critical, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "critical" {
		t.Errorf("expected critical, got %s", body["status"])
	}
}
