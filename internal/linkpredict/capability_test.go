package linkpredict

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/gds/mock"
)

func TestProbeDetectsModernPipeline(t *testing.T) {
	engine := mock.New()
	snap := NewProbe(nil, nil).Detect(context.Background(), openSession(t, engine))

	if !snap.SupportsModernPipeline {
		t.Fatalf("expected modern pipeline support")
	}
	if snap.SupportsLegacyTrain {
		t.Fatalf("did not expect legacy support")
	}
	if snap.EngineMajorVersion != 2 || snap.EngineVersion != "2.6.0" {
		t.Fatalf("version: got %q (major %d)", snap.EngineVersion, snap.EngineMajorVersion)
	}
	if snap.Assumed {
		t.Fatalf("snapshot should not be assumed")
	}
	if !snap.Has(gds.ProcPipelineTrain) || !snap.Has("gds.linkPrediction.adamicAdar") {
		t.Fatalf("missing procedures: %v", snap.AvailableProcedures)
	}
	if snap.Has(gds.ProcGraphProject) {
		t.Fatalf("non link-prediction procedure leaked into snapshot: %v", snap.AvailableProcedures)
	}
}

func TestProbeDetectsLegacyTrain(t *testing.T) {
	engine := mock.NewLegacy(gds.ProcLegacyTrainAlpha)
	snap := NewProbe(nil, nil).Detect(context.Background(), openSession(t, engine))

	if snap.SupportsModernPipeline {
		t.Fatalf("did not expect modern support")
	}
	if !snap.SupportsLegacyTrain {
		t.Fatalf("expected legacy support")
	}
	if snap.EngineMajorVersion != 1 {
		t.Fatalf("major: want=1 got=%d", snap.EngineMajorVersion)
	}
}

func TestProbeBareEngineSupportsNothing(t *testing.T) {
	snap := NewProbe(nil, nil).Detect(context.Background(), openSession(t, mock.NewBare()))
	if snap.Any() {
		t.Fatalf("expected no capability, got %+v", snap)
	}
	if len(snap.AvailableProcedures) != 0 {
		t.Fatalf("expected no link-prediction procedures, got %v", snap.AvailableProcedures)
	}
}

func TestProbeAssumesEverythingWhenListingFails(t *testing.T) {
	engine := mock.NewBare()
	engine.FailOn(gds.ProcList, errors.New("permission denied"))
	snap := NewProbe(nil, nil).Detect(context.Background(), openSession(t, engine))

	if !snap.SupportsModernPipeline || !snap.SupportsLegacyTrain || !snap.Assumed {
		t.Fatalf("expected permissive assumed snapshot, got %+v", snap)
	}
}

func TestProbeContinuesWhenVersionFails(t *testing.T) {
	engine := mock.New()
	engine.FailOn(gds.FuncVersion, errors.New("unknown function"))
	snap := NewProbe(nil, nil).Detect(context.Background(), openSession(t, engine))

	if snap.EngineMajorVersion != 0 {
		t.Fatalf("major: want=0 got=%d", snap.EngineMajorVersion)
	}
	if !snap.SupportsModernPipeline || snap.Assumed {
		t.Fatalf("listing should still drive detection: %+v", snap)
	}
}

func TestProbeHonorsConfiguredLegacyCandidates(t *testing.T) {
	engine := mock.NewLegacy(gds.ProcLegacyTrainAlpha)
	snap := NewProbe(nil, []string{gds.ProcLegacyTrainBeta}).Detect(context.Background(), openSession(t, engine))
	if snap.SupportsLegacyTrain {
		t.Fatalf("alpha is not a configured candidate; legacy should be unsupported")
	}
}

func TestMajorVersion(t *testing.T) {
	cases := map[string]int{
		"2.6.0":        2,
		"v1.8.2":       1,
		"10-SNAPSHOT":  10,
		"":             0,
		"garbage":      0,
		" 2 ":          2,
		"2.0.0-alpha1": 2,
	}
	for in, want := range cases {
		if got := majorVersion(in); got != want {
			t.Fatalf("majorVersion(%q): want=%d got=%d", in, want, got)
		}
	}
}
