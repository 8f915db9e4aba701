package linkpredict

import (
	"context"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

type ResourceKind string

const (
	KindProjection ResourceKind = "projection"
	KindPipeline   ResourceKind = "pipeline"
	KindModel      ResourceKind = "model"
)

var allKinds = []ResourceKind{KindProjection, KindPipeline, KindModel}

func (k ResourceKind) dropProcedure() string {
	switch k {
	case KindProjection:
		return gds.ProcGraphDrop
	case KindPipeline:
		return gds.ProcPipelineDrop
	case KindModel:
		return gds.ProcModelDrop
	}
	return ""
}

func (rs ResourceSet) nameOf(k ResourceKind) string {
	switch k {
	case KindProjection:
		return rs.ProjectionID
	case KindPipeline:
		return rs.PipelineID
	case KindModel:
		return rs.ModelID
	}
	return ""
}

// CleanupOutcome is the result of a best-effort drop. A failed drop is
// reported here and never returned as an error.
type CleanupOutcome struct {
	Kind  ResourceKind `json:"kind"`
	Name  string       `json:"name"`
	Error string       `json:"error,omitempty"`
}

func (o CleanupOutcome) OK() bool { return o.Error == "" }

// Janitor drops catalog resources with failIfMissing=false.
type Janitor struct {
	log *logger.Logger
}

func NewJanitor(log *logger.Logger) *Janitor {
	if log == nil {
		log = logger.Nop()
	}
	return &Janitor{log: log.With("component", "CatalogJanitor")}
}

func (j *Janitor) DropIfExists(ctx context.Context, sess gds.Session, kind ResourceKind, name string) CleanupOutcome {
	out := CleanupOutcome{Kind: kind, Name: name}
	proc := kind.dropProcedure()
	if proc == "" || name == "" || sess == nil {
		out.Error = "nothing to drop"
		return out
	}
	if _, err := sess.Call(ctx, gds.Procedure(proc, name, false)); err != nil {
		out.Error = err.Error()
		j.log.Warn("catalog drop failed (continuing)", "kind", string(kind), "name", name, "error", err)
		return out
	}
	j.log.Debug("catalog drop", "kind", string(kind), "name", name)
	return out
}

// DropAll attempts every kind independently; one failure does not stop the rest.
func (j *Janitor) DropAll(ctx context.Context, sess gds.Session, rs ResourceSet, kinds ...ResourceKind) []CleanupOutcome {
	if len(kinds) == 0 {
		kinds = allKinds
	}
	out := make([]CleanupOutcome, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, j.DropIfExists(ctx, sess, k, rs.nameOf(k)))
	}
	return out
}
