// Package mock is an in-memory stand-in for the remote analytics engine. It keeps
// a catalog of projections, pipelines and models, enforces the same "already
// exists" / "not registered" rules as the real engine, and records every call.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
)

type Prediction struct {
	Source      int64
	Target      int64
	Probability float64
}

type Engine struct {
	mu sync.Mutex

	Version    string
	Registered map[string]bool
	// Fail injects an error for a procedure; the call is still recorded.
	Fail map[string]error
	// OpenErr makes Open fail.
	OpenErr error
	// Predictions is what predict-stream procedures draw from.
	Predictions []Prediction
	Now         func() time.Time

	graphs    map[string]bool
	pipelines map[string]int
	models    map[string]time.Time
	calls     []gds.Call
	opened    int
	closed    int
}

// New returns an engine with the current-generation pipeline procedures registered.
func New() *Engine {
	e := newEngine("2.6.0")
	e.register(
		gds.ProcGraphProject, gds.ProcGraphDrop,
		gds.ProcPipelineCreate, gds.ProcPipelineAddNodeProp, gds.ProcPipelineAddFeature,
		gds.ProcPipelineAddLogistic, gds.ProcPipelineTrain, gds.ProcPipelinePredictStream,
		gds.ProcPipelineDrop, gds.ProcModelDrop, gds.ProcModelList,
		"gds.linkPrediction.adamicAdar",
	)
	return e
}

// NewLegacy returns an engine exposing only the given previous-generation train procedures.
func NewLegacy(trainProcedures ...string) *Engine {
	e := newEngine("1.8.2")
	e.register(gds.ProcGraphCreate, gds.ProcGraphDrop, gds.ProcFastRPWrite, gds.ProcModelDrop)
	for _, p := range trainProcedures {
		e.register(p, gds.PredictProcedureFor(p))
	}
	return e
}

// NewBare returns an engine with catalog procedures but no link-prediction support.
func NewBare() *Engine {
	e := newEngine("2.6.0")
	e.register(gds.ProcGraphProject, gds.ProcGraphCreate, gds.ProcGraphDrop, gds.ProcModelDrop, gds.ProcPipelineDrop)
	return e
}

func newEngine(version string) *Engine {
	return &Engine{
		Version:    version,
		Registered: map[string]bool{gds.ProcList: true},
		Fail:       map[string]error{},
		Now:        time.Now,
		graphs:     map[string]bool{},
		pipelines:  map[string]int{},
		models:     map[string]time.Time{},
	}
}

func (e *Engine) register(names ...string) {
	for _, n := range names {
		e.Registered[n] = true
	}
}

func (e *Engine) Register(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.register(names...)
}

func (e *Engine) Unregister(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range names {
		delete(e.Registered, n)
	}
}

func (e *Engine) FailOn(procedure string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Fail[procedure] = err
}

// PutModel seeds the catalog with a model trained at createdAt.
func (e *Engine) PutModel(name string, createdAt time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.models[name] = createdAt
}

func (e *Engine) PutGraph(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graphs[name] = true
}

func (e *Engine) HasGraph(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graphs[name]
}

func (e *Engine) HasPipeline(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pipelines[name]
	return ok
}

func (e *Engine) HasModel(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.models[name]
	return ok
}

// CatalogSize counts live projections, pipelines and models.
func (e *Engine) CatalogSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.graphs) + len(e.pipelines) + len(e.models)
}

func (e *Engine) Calls() []gds.Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]gds.Call(nil), e.calls...)
}

func (e *Engine) CallCount(procedure string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Procedure == procedure {
			n++
		}
	}
	return n
}

// CallsTo returns the recorded calls to procedure, in order.
func (e *Engine) CallsTo(procedure string) []gds.Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []gds.Call
	for _, c := range e.calls {
		if c.Procedure == procedure {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) Sessions() (opened, closed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opened, e.closed
}

func (e *Engine) Open(ctx context.Context) (gds.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}
	e.opened++
	return &session{engine: e}, nil
}

type session struct {
	engine *Engine
	closed bool
}

func (s *session) Close(ctx context.Context) error {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.engine.closed++
	}
	return nil
}

func (s *session) Call(ctx context.Context, c gds.Call) ([]gds.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("mock: session closed")
	}
	e.calls = append(e.calls, c)
	if err := e.Fail[c.Procedure]; err != nil {
		return nil, err
	}
	if c.Function {
		if c.Procedure == gds.FuncVersion {
			return []gds.Record{{c.Yield[0]: e.Version}}, nil
		}
		return nil, gds.NotFound(c.Procedure)
	}
	if !e.Registered[c.Procedure] {
		return nil, gds.NotFound(c.Procedure)
	}
	return e.dispatch(c)
}

func (e *Engine) dispatch(c gds.Call) ([]gds.Record, error) {
	switch c.Procedure {
	case gds.ProcList:
		names := make([]string, 0, len(e.Registered))
		for n := range e.Registered {
			names = append(names, n)
		}
		sort.Strings(names)
		out := make([]gds.Record, 0, len(names))
		for _, n := range names {
			out = append(out, gds.Record{"name": n})
		}
		return out, nil

	case gds.ProcGraphProject, gds.ProcGraphCreate:
		name := argString(c, 0)
		if e.graphs[name] {
			return nil, failed(c, "A graph with name '%s' already exists.", name)
		}
		e.graphs[name] = true
		return []gds.Record{{"graphName": name}}, nil

	case gds.ProcGraphDrop:
		return nil, dropFrom(c, func(name string) bool {
			ok := e.graphs[name]
			delete(e.graphs, name)
			return ok
		}, "Graph")

	case gds.ProcPipelineDrop:
		return nil, dropFrom(c, func(name string) bool {
			_, ok := e.pipelines[name]
			delete(e.pipelines, name)
			return ok
		}, "Pipeline")

	case gds.ProcModelDrop:
		return nil, dropFrom(c, func(name string) bool {
			_, ok := e.models[name]
			delete(e.models, name)
			return ok
		}, "Model")

	case gds.ProcModelList:
		name := argString(c, 0)
		created, ok := e.models[name]
		if !ok {
			return nil, nil
		}
		return []gds.Record{{
			"modelInfo":    map[string]any{"modelName": name, "modelType": "LinkPrediction"},
			"creationTime": created,
		}}, nil

	case gds.ProcPipelineCreate:
		name := argString(c, 0)
		if _, ok := e.pipelines[name]; ok {
			return nil, failed(c, "A pipeline with name '%s' already exists.", name)
		}
		e.pipelines[name] = 0
		return []gds.Record{{"name": name}}, nil

	case gds.ProcPipelineAddNodeProp, gds.ProcPipelineAddFeature, gds.ProcPipelineAddLogistic:
		name := argString(c, 0)
		if _, ok := e.pipelines[name]; !ok {
			return nil, failed(c, "Pipeline with name `%s` does not exist.", name)
		}
		e.pipelines[name]++
		return []gds.Record{{"name": name}}, nil

	case gds.ProcPipelineTrain:
		graph := argString(c, 0)
		cfg := argMap(c, 1)
		if !e.graphs[graph] {
			return nil, failed(c, "Graph with name `%s` does not exist.", graph)
		}
		pipeline := gds.AsString(cfg["pipeline"])
		if steps, ok := e.pipelines[pipeline]; !ok || steps == 0 {
			return nil, failed(c, "Pipeline with name `%s` does not exist or has no steps.", pipeline)
		}
		return e.trainModel(c, gds.AsString(cfg["modelName"]))

	case gds.ProcFastRPWrite:
		graph := argString(c, 0)
		if !e.graphs[graph] {
			return nil, failed(c, "Graph with name `%s` does not exist.", graph)
		}
		return []gds.Record{{"nodePropertiesWritten": int64(len(e.Predictions))}}, nil

	case gds.ProcPipelinePredictStream:
		return e.predict(c)
	}

	if strings.HasSuffix(c.Procedure, ".train") {
		graph := argString(c, 0)
		if !e.graphs[graph] {
			return nil, failed(c, "Graph with name `%s` does not exist.", graph)
		}
		return e.trainModel(c, gds.AsString(argMap(c, 1)["modelName"]))
	}
	if strings.HasSuffix(c.Procedure, ".predict.stream") {
		return e.predict(c)
	}
	return nil, nil
}

func (e *Engine) trainModel(c gds.Call, model string) ([]gds.Record, error) {
	if model == "" {
		return nil, failed(c, "modelName is required")
	}
	if _, exists := e.models[model]; exists {
		return nil, failed(c, "Model with name `%s` already exists.", model)
	}
	e.models[model] = e.Now()
	return []gds.Record{{"modelInfo": map[string]any{"modelName": model}}}, nil
}

func (e *Engine) predict(c gds.Call) ([]gds.Record, error) {
	graph := argString(c, 0)
	cfg := argMap(c, 1)
	if !e.graphs[graph] {
		return nil, failed(c, "Graph with name `%s` does not exist.", graph)
	}
	model := gds.AsString(cfg["modelName"])
	if _, ok := e.models[model]; !ok {
		return nil, failed(c, "Model with name `%s` does not exist.", model)
	}
	topN, _ := gds.AsInt64(cfg["topN"])
	threshold, _ := gds.AsFloat64(cfg["threshold"])

	preds := append([]Prediction(nil), e.Predictions...)
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Probability > preds[j].Probability })
	out := make([]gds.Record, 0, len(preds))
	for _, p := range preds {
		if p.Probability < threshold {
			continue
		}
		if topN > 0 && int64(len(out)) >= topN {
			break
		}
		out = append(out, gds.Record{"node1": p.Source, "node2": p.Target, "probability": p.Probability})
	}
	return out, nil
}

func dropFrom(c gds.Call, drop func(string) bool, kind string) error {
	name := argString(c, 0)
	failIfMissing := true
	if len(c.Args) > 1 {
		if b, ok := c.Args[1].(bool); ok {
			failIfMissing = b
		}
	}
	if !drop(name) && failIfMissing {
		return failed(c, "%s with name `%s` does not exist.", kind, name)
	}
	return nil
}

func failed(c gds.Call, format string, args ...any) error {
	return &gds.ProcedureError{
		Kind:      gds.ProcedureErrorFailed,
		Procedure: c.Procedure,
		Code:      "Neo.ClientError.Procedure.ProcedureCallFailed",
		Message:   fmt.Sprintf(format, args...),
	}
}

func argString(c gds.Call, i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return gds.AsString(c.Args[i])
}

func argMap(c gds.Call, i int) map[string]any {
	if i >= len(c.Args) {
		return map[string]any{}
	}
	if m, ok := c.Args[i].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
