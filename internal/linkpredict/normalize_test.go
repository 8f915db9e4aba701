package linkpredict

import (
	"math"
	"testing"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
)

func TestParsePredictionsDropsUnusableRows(t *testing.T) {
	recs := []gds.Record{
		{"node1": int64(1), "node2": int64(2), "probability": 0.8},
		{"node1": int64(3), "node2": int64(4), "probability": math.NaN()},
		{"node1": int64(5), "node2": int64(6), "probability": math.Inf(1)},
		{"node1": "x", "node2": int64(6), "probability": 0.5},
		{"node1": int64(7), "node2": int64(8), "probability": 1.3},
		{"node1": int64(9), "node2": int64(10), "probability": -0.2},
	}
	got := parsePredictions(recs)
	if len(got) != 3 {
		t.Fatalf("rows kept: want=3 got=%d (%v)", len(got), got)
	}
	if got[1].Probability != 1 || got[2].Probability != 0 {
		t.Fatalf("clamping failed: %v", got)
	}
	for _, p := range got {
		if p.Probability < 0 || p.Probability > 1 {
			t.Fatalf("probability out of range: %v", p)
		}
	}
}

func TestRankPredictionsOrdersAndCaps(t *testing.T) {
	in := []PredictionRecord{
		{SourceEntityID: 5, TargetEntityID: 1, Probability: 0.5},
		{SourceEntityID: 2, TargetEntityID: 9, Probability: 0.9},
		{SourceEntityID: 1, TargetEntityID: 3, Probability: 0.5},
		{SourceEntityID: 1, TargetEntityID: 2, Probability: 0.5},
		{SourceEntityID: 8, TargetEntityID: 8, Probability: 0.1},
	}
	got := rankPredictions(in, 4)
	want := []PredictionRecord{
		{SourceEntityID: 2, TargetEntityID: 9, Probability: 0.9},
		{SourceEntityID: 1, TargetEntityID: 2, Probability: 0.5},
		{SourceEntityID: 1, TargetEntityID: 3, Probability: 0.5},
		{SourceEntityID: 5, TargetEntityID: 1, Probability: 0.5},
	}
	if len(got) != len(want) {
		t.Fatalf("len: want=%d got=%d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: want=%v got=%v", i, want[i], got[i])
		}
	}
	if in[0].SourceEntityID != 5 {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestRankPredictionsEmpty(t *testing.T) {
	if got := rankPredictions(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
