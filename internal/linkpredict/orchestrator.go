package linkpredict

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/observability"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

const defaultCleanupTimeout = 30 * time.Second

type Deps struct {
	Log       *logger.Logger
	Connector gds.Connector
	Settings  Settings
	// Capabilities is shared across jobs; nil gets a never-expiring in-memory cache.
	Capabilities *CapabilityCache
	Namer        *Namer
	// CleanupTimeout bounds post-run cleanup, which runs even if the job context is done.
	CleanupTimeout time.Duration
}

// Orchestrator runs predict-links jobs. Jobs share nothing but the capability
// cache; isolation between concurrent jobs comes from per-job resource names.
type Orchestrator struct {
	log            *logger.Logger
	connector      gds.Connector
	namer          *Namer
	janitor        *Janitor
	probe          *Probe
	caps           *CapabilityCache
	modern         *PipelineRunner
	legacy         *LegacyRunner
	cleanupTimeout time.Duration
	now            func() time.Time
}

func New(deps Deps) (*Orchestrator, error) {
	if deps.Connector == nil {
		return nil, fmt.Errorf("linkpredict: connector required")
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	settings := deps.Settings.withDefaults()
	caps := deps.Capabilities
	if caps == nil {
		caps = NewCapabilityCache(CapabilityCacheOptions{Log: log})
	}
	namer := deps.Namer
	if namer == nil {
		namer = NewNamer()
	}
	cleanupTimeout := deps.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = defaultCleanupTimeout
	}
	janitor := NewJanitor(log)
	return &Orchestrator{
		log:            log.With("component", "LinkPredictOrchestrator"),
		connector:      deps.Connector,
		namer:          namer,
		janitor:        janitor,
		probe:          NewProbe(log, settings.LegacyTrainProcedures),
		caps:           caps,
		modern:         NewPipelineRunner(log, settings, janitor, NewFreshnessChecker(log)),
		legacy:         NewLegacyRunner(log, settings),
		cleanupTimeout: cleanupTimeout,
		now:            time.Now,
	}, nil
}

func ValidateRequest(topN int, threshold float64) error {
	if topN <= 0 {
		return fmt.Errorf("%w: topN must be > 0 (got %d)", ErrInvalidArgument, topN)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0,1] (got %v)", ErrInvalidArgument, threshold)
	}
	return nil
}

// PredictLinks runs one job: probe, name, pre-clean, run exactly one workflow,
// and always post-clean. The caller gets either a full result or the error
// that actually ended the job.
func (o *Orchestrator) PredictLinks(ctx context.Context, topN int, threshold float64) (result *JobResult, err error) {
	if err := ValidateRequest(topN, threshold); err != nil {
		return nil, err
	}
	start := o.now()
	ctx, span := observability.StartSpan(ctx, "linkpredict.predict_links",
		attribute.Int("linkpredict.top_n", topN),
		attribute.Float64("linkpredict.threshold", threshold),
	)
	log := o.log.With(ctxutil.LogFields(ctx)...)
	defer func() {
		elapsed := o.now().Sub(start)
		if result != nil {
			result.Duration = elapsed
			span.SetAttributes(
				attribute.String("linkpredict.path", string(result.Path)),
				attribute.Int("linkpredict.predictions", len(result.Predictions)),
			)
			log.Info("predict links finished", "path", string(result.Path), "predictions", len(result.Predictions), "duration_ms", elapsed.Milliseconds())
		} else if err != nil {
			log.Warn("predict links failed", "error", err, "duration_ms", elapsed.Milliseconds())
		}
		observability.EndSpan(span, err)
	}()

	sess, err := o.connector.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("linkpredict: open engine session: %w", err)
	}
	defer func() {
		if cerr := o.closeSession(ctx, sess); cerr != nil {
			log.Warn("engine session close failed", "error", cerr)
		}
	}()

	snap := o.caps.Get(ctx, func(ctx context.Context) CapabilitySnapshot {
		return o.probe.Detect(ctx, sess)
	})

	rs := o.namer.NewResourceSet()
	log = log.With("job_token", rs.Token)
	span.SetAttributes(attribute.String("linkpredict.job_token", rs.Token))

	o.janitor.DropAll(ctx, sess, rs, KindProjection, KindPipeline)

	defer func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cleanupTimeout)
		defer cancel()
		cleanup := o.janitor.DropAll(cctx, sess, rs)
		if result != nil {
			result.Cleanup = cleanup
		}
	}()

	req := runRequest{Resources: rs, TopN: topN, Threshold: threshold}
	var (
		out  runOutput
		path ExecutionPath
	)
	switch {
	case snap.SupportsModernPipeline:
		path = PathModern
		out, err = o.modern.Run(ctx, sess, req)
	case snap.SupportsLegacyTrain:
		path = PathLegacy
		out, err = o.legacy.Run(ctx, sess, req, snap)
	default:
		span.SetAttributes(attribute.String("linkpredict.path", "rejected"))
		return nil, ErrNoCapabilityAvailable
	}
	if err != nil {
		return nil, err
	}

	return &JobResult{
		Path:           path,
		Resources:      rs,
		Predictions:    rankPredictions(out.predictions, topN),
		ModelReused:    out.modelReused,
		TrainProcedure: out.trainProcedure,
	}, nil
}

// Capabilities returns the cached snapshot, detecting it when needed.
func (o *Orchestrator) Capabilities(ctx context.Context) (CapabilitySnapshot, error) {
	sess, err := o.connector.Open(ctx)
	if err != nil {
		return CapabilitySnapshot{}, fmt.Errorf("linkpredict: open engine session: %w", err)
	}
	defer func() {
		if cerr := o.closeSession(ctx, sess); cerr != nil {
			o.log.Warn("engine session close failed", "error", cerr)
		}
	}()
	return o.caps.Get(ctx, func(ctx context.Context) CapabilitySnapshot {
		return o.probe.Detect(ctx, sess)
	}), nil
}

// RefreshCapabilities invalidates the cache and detects again.
func (o *Orchestrator) RefreshCapabilities(ctx context.Context) (CapabilitySnapshot, error) {
	o.caps.Invalidate(ctx)
	return o.Capabilities(ctx)
}

// closeSession outlives a cancelled job context but not the cleanup budget.
func (o *Orchestrator) closeSession(ctx context.Context, sess gds.Session) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cleanupTimeout)
	defer cancel()
	return sess.Close(cctx)
}
