package linkpredict

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/gds/mock"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func fixedNamer(suffix string) *Namer {
	return &Namer{
		now:    func() time.Time { return testNow },
		suffix: func() string { return suffix },
	}
}

func newTestOrchestrator(t *testing.T, engine *mock.Engine, opts ...func(*Deps)) *Orchestrator {
	t.Helper()
	deps := Deps{Connector: engine}
	for _, opt := range opts {
		opt(&deps)
	}
	o, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	o.modern.freshness.now = func() time.Time { return testNow }
	return o
}

func samplePredictions() []mock.Prediction {
	return []mock.Prediction{
		{Source: 1, Target: 2, Probability: 0.91},
		{Source: 3, Target: 4, Probability: 0.35},
		{Source: 5, Target: 6, Probability: 0.77},
		{Source: 7, Target: 8, Probability: 0.52},
		{Source: 9, Target: 10, Probability: 0.66},
	}
}

// erroringSession fails every call and counts attempts.
type erroringSession struct {
	mu    sync.Mutex
	err   error
	calls []gds.Call
}

func (s *erroringSession) Call(_ context.Context, c gds.Call) ([]gds.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	if s.err == nil {
		return nil, errors.New("remote call failed")
	}
	return nil, s.err
}

func (s *erroringSession) Close(context.Context) error { return nil }

// scriptedSession answers from a per-procedure table.
type scriptedSession struct {
	records map[string][]gds.Record
	errs    map[string]error
	calls   []gds.Call
}

func (s *scriptedSession) Call(_ context.Context, c gds.Call) ([]gds.Record, error) {
	s.calls = append(s.calls, c)
	if err := s.errs[c.Procedure]; err != nil {
		return nil, err
	}
	return s.records[c.Procedure], nil
}

func (s *scriptedSession) Close(context.Context) error { return nil }

func procedures(calls []gds.Call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Procedure)
	}
	return out
}

func openSession(t *testing.T, engine *mock.Engine) gds.Session {
	t.Helper()
	sess, err := engine.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close(context.Background()) })
	return sess
}
