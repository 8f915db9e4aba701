package neo4jdb

import (
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
)

func TestRenderProcedureWithYield(t *testing.T) {
	c := gds.Procedure(gds.ProcPipelinePredictStream, "projection_x", map[string]any{"topN": 5}).
		Yielding("node1", "node2", "probability")
	cypher, params, err := Render(c)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "CALL gds.beta.pipeline.linkPrediction.predict.stream($p0, $p1) YIELD node1, node2, probability RETURN node1, node2, probability"
	if cypher != want {
		t.Fatalf("cypher mismatch:\nwant=%s\ngot =%s", want, cypher)
	}
	if params["p0"] != "projection_x" {
		t.Fatalf("p0: got=%v", params["p0"])
	}
	if len(params) != 2 {
		t.Fatalf("params: want=2 got=%d", len(params))
	}
}

func TestRenderProcedureWithoutYield(t *testing.T) {
	cypher, _, err := Render(gds.Procedure(gds.ProcGraphDrop, "g", false))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if cypher != "CALL gds.graph.drop($p0, $p1)" {
		t.Fatalf("cypher: got=%s", cypher)
	}
}

func TestRenderFunction(t *testing.T) {
	cypher, params, err := Render(gds.Function(gds.FuncVersion, "version"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if cypher != "RETURN gds.version() AS version" {
		t.Fatalf("cypher: got=%s", cypher)
	}
	if len(params) != 0 {
		t.Fatalf("params: want empty got=%v", params)
	}
}

func TestRenderRejectsInjection(t *testing.T) {
	bad := []gds.Call{
		gds.Procedure("gds.graph.drop($x) MATCH (n) DETACH DELETE n //"),
		gds.Procedure("").Yielding("a"),
		gds.Procedure(gds.ProcList).Yielding("name; DROP"),
		gds.Procedure("gds..list"),
	}
	for _, c := range bad {
		if _, _, err := Render(c); err == nil {
			t.Fatalf("Render(%q): expected error", c.Procedure)
		}
	}
}

func TestClassifyProcedureNotFound(t *testing.T) {
	raw := &neo4j.Neo4jError{Code: codeProcedureNotFound, Msg: "There is no procedure with the name `gds.alpha.ml.linkPrediction.train` registered"}
	err := classify(gds.Procedure(gds.ProcLegacyTrainAlpha), raw)
	if !errors.Is(err, gds.ErrProcedureNotFound) {
		t.Fatalf("expected ErrProcedureNotFound, got=%v", err)
	}
	var pe *gds.ProcedureError
	if !errors.As(err, &pe) || pe.Code != codeProcedureNotFound {
		t.Fatalf("expected ProcedureError with code, got=%v", err)
	}
	if !errors.Is(err, raw) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestClassifyOtherFailure(t *testing.T) {
	raw := &neo4j.Neo4jError{Code: "Neo.ClientError.Procedure.ProcedureCallFailed", Msg: "Graph with name `x` does not exist"}
	err := classify(gds.Procedure(gds.ProcPipelineTrain), raw)
	if errors.Is(err, gds.ErrProcedureNotFound) {
		t.Fatalf("did not expect ErrProcedureNotFound for call failure")
	}
	plain := classify(gds.Procedure(gds.ProcGraphDrop), errors.New("boom"))
	var pe *gds.ProcedureError
	if !errors.As(plain, &pe) || pe.Kind != gds.ProcedureErrorFailed {
		t.Fatalf("expected failed kind, got=%v", plain)
	}
}
