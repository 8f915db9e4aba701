package linkpredict

import (
	"math"
	"sort"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
)

// parsePredictions reads node1/node2/probability rows, dropping rows with
// unusable identifiers or non-finite probabilities.
func parsePredictions(recs []gds.Record) []PredictionRecord {
	out := make([]PredictionRecord, 0, len(recs))
	for _, r := range recs {
		src, ok := gds.AsInt64(r["node1"])
		if !ok {
			continue
		}
		dst, ok := gds.AsInt64(r["node2"])
		if !ok {
			continue
		}
		p, ok := gds.AsFloat64(r["probability"])
		if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		out = append(out, PredictionRecord{SourceEntityID: src, TargetEntityID: dst, Probability: clamp01(p)})
	}
	return out
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// rankPredictions sorts by probability descending (ties by source, then target)
// and keeps at most topN.
func rankPredictions(in []PredictionRecord, topN int) []PredictionRecord {
	out := make([]PredictionRecord, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.SourceEntityID != b.SourceEntityID {
			return a.SourceEntityID < b.SourceEntityID
		}
		return a.TargetEntityID < b.TargetEntityID
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
