package linkpredict

import (
	"context"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

const embeddingProperty = "embedding"

type runRequest struct {
	Resources ResourceSet
	TopN      int
	Threshold float64
}

// PipelineRunner drives the current-generation, pipeline based workflow.
type PipelineRunner struct {
	settings  Settings
	janitor   *Janitor
	freshness *FreshnessChecker
	log       *logger.Logger
}

func NewPipelineRunner(log *logger.Logger, settings Settings, janitor *Janitor, freshness *FreshnessChecker) *PipelineRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &PipelineRunner{
		settings:  settings.withDefaults(),
		janitor:   janitor,
		freshness: freshness,
		log:       log.With("component", "PipelineRunner"),
	}
}

// Run projects, trains when needed and streams predictions. On any failure the
// projection is dropped and the original error is returned as is; there is no
// fallback to the legacy workflow.
func (r *PipelineRunner) Run(ctx context.Context, sess gds.Session, req runRequest) (runOutput, error) {
	rs := req.Resources
	out, err := r.run(ctx, sess, req)
	if err != nil {
		r.janitor.DropIfExists(ctx, sess, KindProjection, rs.ProjectionID)
		return runOutput{}, err
	}
	return out, nil
}

func (r *PipelineRunner) run(ctx context.Context, sess gds.Session, req runRequest) (runOutput, error) {
	rs := req.Resources
	log := r.log.With("job_token", rs.Token)

	if _, err := sess.Call(ctx, gds.Procedure(gds.ProcGraphProject,
		rs.ProjectionID,
		nodeProjection(r.settings.NodeLabels),
		relationshipProjection(r.settings.RelationshipTypes),
	)); err != nil {
		return runOutput{}, err
	}

	out := runOutput{}
	if r.freshness.IsFresh(ctx, sess, rs.ModelID) {
		log.Info("fresh model found, skipping training", "model", rs.ModelID)
		out.modelReused = true
	} else {
		// A stale model under this name would make training fail with "already exists".
		r.janitor.DropIfExists(ctx, sess, KindModel, rs.ModelID)
		if err := r.train(ctx, sess, rs); err != nil {
			return runOutput{}, err
		}
		out.trainProcedure = gds.ProcPipelineTrain
	}

	recs, err := sess.Call(ctx, gds.Procedure(gds.ProcPipelinePredictStream, rs.ProjectionID, map[string]any{
		"modelName": rs.ModelID,
		"topN":      int64(req.TopN),
		"threshold": req.Threshold,
	}).Yielding("node1", "node2", "probability"))
	if err != nil {
		return runOutput{}, err
	}
	out.predictions = parsePredictions(recs)
	log.Debug("pipeline predictions streamed", "rows", len(recs), "kept", len(out.predictions))
	return out, nil
}

func (r *PipelineRunner) train(ctx context.Context, sess gds.Session, rs ResourceSet) error {
	steps := []gds.Call{
		gds.Procedure(gds.ProcPipelineCreate, rs.PipelineID),
		gds.Procedure(gds.ProcPipelineAddNodeProp, rs.PipelineID, "fastRP", map[string]any{
			"mutateProperty":     embeddingProperty,
			"embeddingDimension": int64(r.settings.EmbeddingDimension),
			"randomSeed":         r.settings.RandomSeed,
		}),
		gds.Procedure(gds.ProcPipelineAddFeature, rs.PipelineID, "hadamard", map[string]any{
			"nodeProperties": []any{embeddingProperty},
		}),
		gds.Procedure(gds.ProcPipelineAddLogistic, rs.PipelineID, map[string]any{}),
	}
	for _, step := range steps {
		if _, err := sess.Call(ctx, step); err != nil {
			return err
		}
	}

	cfg := map[string]any{
		"pipeline":   rs.PipelineID,
		"modelName":  rs.ModelID,
		"randomSeed": r.settings.RandomSeed,
	}
	if r.settings.TargetRelationshipType != "" {
		cfg["targetRelationshipType"] = r.settings.TargetRelationshipType
	}
	_, err := sess.Call(ctx, gds.Procedure(gds.ProcPipelineTrain, rs.ProjectionID, cfg).Yielding("modelInfo"))
	return err
}
