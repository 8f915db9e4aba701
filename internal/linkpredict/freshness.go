package linkpredict

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

// ModelTTL is how long a trained model may be reused without retraining.
const ModelTTL = 7 * 24 * time.Hour

type ModelFreshnessRecord struct {
	ModelID   string
	CreatedAt time.Time
}

// FreshnessChecker decides whether an existing model can skip retraining.
// Any lookup problem means "not fresh": the cost is an extra training run.
type FreshnessChecker struct {
	log *logger.Logger
	ttl time.Duration
	now func() time.Time
}

func NewFreshnessChecker(log *logger.Logger) *FreshnessChecker {
	if log == nil {
		log = logger.Nop()
	}
	return &FreshnessChecker{
		log: log.With("component", "ModelFreshness"),
		ttl: ModelTTL,
		now: time.Now,
	}
}

// Lookup returns the model's creation record. ok is false when the model is absent.
func (f *FreshnessChecker) Lookup(ctx context.Context, sess gds.Session, modelID string) (ModelFreshnessRecord, bool, error) {
	recs, err := sess.Call(ctx, gds.Procedure(gds.ProcModelList, modelID).Yielding("modelInfo", "creationTime"))
	if err != nil {
		return ModelFreshnessRecord{}, false, err
	}
	for _, r := range recs {
		if info, ok := r["modelInfo"].(map[string]any); ok {
			if name := gds.AsString(info["modelName"]); name != "" && name != modelID {
				continue
			}
		}
		created, ok := gds.AsTime(r["creationTime"])
		if !ok {
			continue
		}
		return ModelFreshnessRecord{ModelID: modelID, CreatedAt: created}, true, nil
	}
	return ModelFreshnessRecord{}, false, nil
}

func (f *FreshnessChecker) IsFresh(ctx context.Context, sess gds.Session, modelID string) bool {
	rec, ok, err := f.Lookup(ctx, sess, modelID)
	if err != nil {
		f.log.Warn("model freshness lookup failed, treating as stale", "model", modelID, "error", err)
		return false
	}
	if !ok {
		return false
	}
	age := f.now().Sub(rec.CreatedAt)
	fresh := age < f.ttl
	f.log.Debug("model freshness", "model", modelID, "age", age.String(), "fresh", fresh)
	return fresh
}
