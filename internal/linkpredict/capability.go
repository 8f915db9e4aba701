package linkpredict

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

// CapabilitySnapshot classifies which link-prediction API generations the engine exposes.
type CapabilitySnapshot struct {
	// EngineMajorVersion is 0 when the version could not be read.
	EngineMajorVersion     int      `json:"engine_major_version"`
	EngineVersion          string   `json:"engine_version,omitempty"`
	SupportsModernPipeline bool     `json:"supports_modern_pipeline"`
	SupportsLegacyTrain    bool     `json:"supports_legacy_train"`
	AvailableProcedures    []string `json:"available_procedures,omitempty"`
	// Assumed marks permissive defaults used because detection failed.
	Assumed    bool      `json:"assumed"`
	DetectedAt time.Time `json:"detected_at"`
}

func (s CapabilitySnapshot) Has(procedure string) bool {
	i := sort.SearchStrings(s.AvailableProcedures, procedure)
	return i < len(s.AvailableProcedures) && s.AvailableProcedures[i] == procedure
}

func (s CapabilitySnapshot) Any() bool {
	return s.SupportsModernPipeline || s.SupportsLegacyTrain
}

// Probe asks the engine for its version and registered link-prediction procedures.
type Probe struct {
	log             *logger.Logger
	legacyTrainings []string
	now             func() time.Time
}

func NewProbe(log *logger.Logger, legacyTrainProcedures []string) *Probe {
	if log == nil {
		log = logger.Nop()
	}
	if len(legacyTrainProcedures) == 0 {
		legacyTrainProcedures = gds.LegacyTrainCandidates
	}
	return &Probe{
		log:             log.With("component", "CapabilityProbe"),
		legacyTrainings: append([]string(nil), legacyTrainProcedures...),
		now:             time.Now,
	}
}

// Detect never fails: when the procedure listing cannot be read both generations
// are assumed available so an otherwise working engine is not blocked.
func (p *Probe) Detect(ctx context.Context, sess gds.Session) CapabilitySnapshot {
	snap := CapabilitySnapshot{DetectedAt: p.now().UTC()}

	if recs, err := sess.Call(ctx, gds.Function(gds.FuncVersion, "version")); err != nil {
		p.log.Warn("engine version query failed (continuing)", "error", err)
	} else if len(recs) > 0 {
		snap.EngineVersion = gds.AsString(recs[0]["version"])
		snap.EngineMajorVersion = majorVersion(snap.EngineVersion)
	}

	recs, err := sess.Call(ctx, gds.Procedure(gds.ProcList).Yielding("name"))
	if err != nil {
		p.log.Warn("procedure listing failed, assuming all generations available", "error", err)
		snap.SupportsModernPipeline = true
		snap.SupportsLegacyTrain = true
		snap.Assumed = true
		return snap
	}

	seen := map[string]struct{}{}
	for _, r := range recs {
		name := strings.TrimSpace(gds.AsString(r["name"]))
		if name == "" || !gds.IsLinkPrediction(name) {
			continue
		}
		seen[name] = struct{}{}
	}
	snap.AvailableProcedures = make([]string, 0, len(seen))
	for name := range seen {
		snap.AvailableProcedures = append(snap.AvailableProcedures, name)
		if strings.Contains(strings.ToLower(name), gds.ModernPipelineMarker) {
			snap.SupportsModernPipeline = true
		}
	}
	sort.Strings(snap.AvailableProcedures)
	for _, candidate := range p.legacyTrainings {
		if snap.Has(candidate) {
			snap.SupportsLegacyTrain = true
			break
		}
	}

	p.log.Info("engine capabilities detected",
		"engine_version", snap.EngineVersion,
		"modern", snap.SupportsModernPipeline,
		"legacy", snap.SupportsLegacyTrain,
		"procedures", len(snap.AvailableProcedures),
	)
	return snap
}

func majorVersion(v string) int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return 0
	}
	head := v
	if i := strings.IndexAny(v, ".-"); i >= 0 {
		head = v[:i]
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
