// Package linkpredict orchestrates link-prediction jobs against a remote graph
// analytics engine. The engine does the math; this package decides which API
// generation to use, names and cleans up the per-job remote resources, and
// reuses trained models while they are fresh.
package linkpredict

import (
	"errors"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
)

var (
	// ErrNoCapabilityAvailable is returned when the engine supports neither API generation.
	ErrNoCapabilityAvailable = errors.New("linkpredict: engine supports no link-prediction procedures")
	// ErrNoLegacyProcedureAvailable is returned after every legacy train candidate was unregistered.
	ErrNoLegacyProcedureAvailable = errors.New("linkpredict: no usable legacy link-prediction procedure")
	ErrInvalidArgument            = errors.New("linkpredict: invalid argument")
)

type ExecutionPath string

const (
	PathModern ExecutionPath = "modern"
	PathLegacy ExecutionPath = "legacy"
)

type PredictionRecord struct {
	SourceEntityID int64   `json:"source"`
	TargetEntityID int64   `json:"target"`
	Probability    float64 `json:"probability"`
}

// ResourceSet names every remote resource a single job may create.
type ResourceSet struct {
	Token        string `json:"token"`
	ProjectionID string `json:"projection"`
	PipelineID   string `json:"pipeline"`
	ModelID      string `json:"model"`
}

type JobResult struct {
	Path        ExecutionPath      `json:"path"`
	Resources   ResourceSet        `json:"resources"`
	Predictions []PredictionRecord `json:"predictions"`
	// ModelReused is true when a fresh model skipped training.
	ModelReused bool `json:"model_reused"`
	// TrainProcedure is the procedure that produced the model (empty when reused).
	TrainProcedure string           `json:"train_procedure,omitempty"`
	Cleanup        []CleanupOutcome `json:"cleanup,omitempty"`
	Duration       time.Duration    `json:"duration"`
}

// Settings control how the graph is projected and models are trained.
type Settings struct {
	NodeLabels             []string
	RelationshipTypes      []string
	TargetRelationshipType string
	EmbeddingDimension     int
	RandomSeed             int64
	LegacyTrainProcedures  []string
}

func DefaultSettings() Settings {
	return Settings{
		NodeLabels:            []string{"*"},
		RelationshipTypes:     []string{"*"},
		EmbeddingDimension:    64,
		RandomSeed:            42,
		LegacyTrainProcedures: append([]string(nil), gds.LegacyTrainCandidates...),
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if len(s.NodeLabels) == 0 {
		s.NodeLabels = def.NodeLabels
	}
	if len(s.RelationshipTypes) == 0 {
		s.RelationshipTypes = def.RelationshipTypes
	}
	if s.EmbeddingDimension <= 0 {
		s.EmbeddingDimension = def.EmbeddingDimension
	}
	if len(s.LegacyTrainProcedures) == 0 {
		s.LegacyTrainProcedures = def.LegacyTrainProcedures
	}
	return s
}

// runOutput is what either runner hands back to the orchestrator.
type runOutput struct {
	predictions    []PredictionRecord
	modelReused    bool
	trainProcedure string
}
