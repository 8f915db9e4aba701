package linkpredict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

// TrainCandidate pairs a legacy train procedure with its predict counterpart.
type TrainCandidate struct {
	Train   string
	Predict string
}

func CandidatesFor(trainProcedures []string) []TrainCandidate {
	out := make([]TrainCandidate, 0, len(trainProcedures))
	for _, p := range trainProcedures {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, TrainCandidate{Train: p, Predict: gds.PredictProcedureFor(p)})
	}
	return out
}

// LegacyRunner drives the previous-generation workflow: project, write
// embeddings, then train through whichever legacy procedure is registered.
type LegacyRunner struct {
	settings   Settings
	candidates []TrainCandidate
	log        *logger.Logger
}

func NewLegacyRunner(log *logger.Logger, settings Settings) *LegacyRunner {
	if log == nil {
		log = logger.Nop()
	}
	settings = settings.withDefaults()
	return &LegacyRunner{
		settings:   settings,
		candidates: CandidatesFor(settings.LegacyTrainProcedures),
		log:        log.With("component", "LegacyRunner"),
	}
}

// Run executes the legacy workflow. available narrows the candidates when the
// registered procedure names are known; an empty snapshot tries every candidate.
func (r *LegacyRunner) Run(ctx context.Context, sess gds.Session, req runRequest, available CapabilitySnapshot) (runOutput, error) {
	rs := req.Resources
	log := r.log.With("job_token", rs.Token)

	if _, err := sess.Call(ctx, gds.Procedure(gds.ProcGraphCreate,
		rs.ProjectionID,
		nodeProjection(r.settings.NodeLabels),
		relationshipProjection(r.settings.RelationshipTypes),
	)); err != nil {
		return runOutput{}, err
	}

	if _, err := sess.Call(ctx, gds.Procedure(gds.ProcFastRPWrite, rs.ProjectionID, map[string]any{
		"writeProperty":      embeddingProperty,
		"embeddingDimension": int64(r.settings.EmbeddingDimension),
		"randomSeed":         r.settings.RandomSeed,
	})); err != nil {
		return runOutput{}, err
	}

	chosen, err := r.train(ctx, sess, rs, r.eligible(available))
	if err != nil {
		return runOutput{}, err
	}
	log.Info("legacy model trained", "procedure", chosen.Train)

	recs, err := sess.Call(ctx, gds.Procedure(chosen.Predict, rs.ProjectionID, map[string]any{
		"modelName": rs.ModelID,
		"topN":      int64(req.TopN),
		"threshold": req.Threshold,
	}).Yielding("node1", "node2", "probability"))
	if err != nil {
		return runOutput{}, err
	}
	return runOutput{
		predictions:    parsePredictions(recs),
		trainProcedure: chosen.Train,
	}, nil
}

func (r *LegacyRunner) eligible(snap CapabilitySnapshot) []TrainCandidate {
	if len(snap.AvailableProcedures) == 0 {
		return r.candidates
	}
	out := make([]TrainCandidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		if snap.Has(c.Train) {
			out = append(out, c)
		}
	}
	return out
}

// train tries candidates in order. Only a typed "procedure not registered"
// error moves on to the next candidate; anything else is fatal.
func (r *LegacyRunner) train(ctx context.Context, sess gds.Session, rs ResourceSet, candidates []TrainCandidate) (TrainCandidate, error) {
	cfg := map[string]any{
		"modelName":         rs.ModelID,
		"featureProperties": []any{embeddingProperty},
		"randomSeed":        r.settings.RandomSeed,
	}
	if t := r.settings.TargetRelationshipType; t != "" {
		cfg["trainRelationshipType"] = t
		cfg["testRelationshipType"] = t
	}

	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tried = append(tried, c.Train)
		_, err := sess.Call(ctx, gds.Procedure(c.Train, rs.ProjectionID, cfg).Yielding("modelInfo"))
		if err == nil {
			return c, nil
		}
		if errors.Is(err, gds.ErrProcedureNotFound) {
			r.log.Debug("legacy train procedure not registered, trying next", "procedure", c.Train)
			continue
		}
		return TrainCandidate{}, fmt.Errorf("legacy train via %s: %w", c.Train, err)
	}
	return TrainCandidate{}, fmt.Errorf("%w (tried: %s)", ErrNoLegacyProcedureAvailable, strings.Join(tried, ", "))
}
