package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubReport struct {
	counts RunCounts
}

func (r stubReport) Counts() RunCounts { return r.counts }
func (r stubReport) Message() string   { return "done" }

type stubPipeline struct {
	report Report
	err    error
	asOf   time.Time
}

func (p *stubPipeline) Name() string { return "stub" }

func (p *stubPipeline) Execute(ctx context.Context, asOf time.Time) (Report, error) {
	p.asOf = asOf
	return p.report, p.err
}

type memoryRunStore struct {
	mu      sync.Mutex
	runs    map[string]PipelineRun
	updates []PipelineStatus
}

func newMemoryRunStore() *memoryRunStore {
	return &memoryRunStore{runs: make(map[string]PipelineRun)}
}

func (s *memoryRunStore) CreatePipelineRun(ctx context.Context, run *PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

func (s *memoryRunStore) UpdatePipelineRun(ctx context.Context, run *PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	s.updates = append(s.updates, run.Status)
	return nil
}

func (s *memoryRunStore) GetPipelineRun(ctx context.Context, id string) (*PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (s *memoryRunStore) LatestPipelineRun(ctx context.Context, name string) (*PipelineRun, error) {
	return nil, nil
}

func TestOrchestratorRecordsCompletedRun(t *testing.T) {
	store := newMemoryRunStore()
	hookCalls := 0
	o := NewOrchestrator(store, func(ctx context.Context, run *PipelineRun) {
		hookCalls++
	})

	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &stubPipeline{report: stubReport{counts: RunCounts{Total: 4, Generated: 2, Skipped: 1, Failed: 1}}}

	run, report, err := o.Run(context.Background(), p, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatalf("expected report")
	}
	if !p.asOf.Equal(asOf) {
		t.Fatalf("pipeline received asOf %v, want %v", p.asOf, asOf)
	}
	if hookCalls != 1 {
		t.Fatalf("expected hook to fire once, fired %d", hookCalls)
	}

	stored, _ := store.GetPipelineRun(context.Background(), run.ID)
	if stored == nil {
		t.Fatalf("run %s not stored", run.ID)
	}
	if stored.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	if stored.Generated != 2 || stored.Skipped != 1 || stored.Failed != 1 || stored.Total != 4 {
		t.Fatalf("unexpected counts: %+v", stored)
	}
	if stored.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}
	if len(store.updates) != 2 || store.updates[0] != StatusProcessing {
		t.Fatalf("unexpected status transitions: %v", store.updates)
	}
}

func TestOrchestratorMarksFailedRun(t *testing.T) {
	store := newMemoryRunStore()
	hookCalls := 0
	o := NewOrchestrator(store, func(ctx context.Context, run *PipelineRun) {
		hookCalls++
	})

	boom := errors.New("load failed")
	run, _, err := o.Run(context.Background(), &stubPipeline{err: boom}, time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if run.Status != StatusFailed || run.ErrorMessage == "" {
		t.Fatalf("expected failed run with message, got %+v", run)
	}
	if hookCalls != 0 {
		t.Fatalf("hooks must not fire on failure")
	}
}

func TestOrchestratorWithoutStore(t *testing.T) {
	o := NewOrchestrator(nil)
	run, _, err := o.Run(context.Background(), &stubPipeline{report: stubReport{}}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID == "" || run.Status != StatusCompleted {
		t.Fatalf("unexpected run: %+v", run)
	}
}
