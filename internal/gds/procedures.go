package gds

import "strings"

// Catalog management.
const (
	ProcGraphDrop    = "gds.graph.drop"
	ProcPipelineDrop = "gds.beta.pipeline.drop"
	ProcModelDrop    = "gds.beta.model.drop"
	ProcModelList    = "gds.beta.model.list"
)

// Introspection.
const (
	FuncVersion  = "gds.version"
	ProcList     = "gds.list"
	LinkPredHint = "linkprediction"
)

// Current generation: pipeline based.
const (
	ProcGraphProject          = "gds.graph.project"
	ProcPipelineCreate        = "gds.beta.pipeline.linkPrediction.create"
	ProcPipelineAddNodeProp   = "gds.beta.pipeline.linkPrediction.addNodeProperty"
	ProcPipelineAddFeature    = "gds.beta.pipeline.linkPrediction.addFeature"
	ProcPipelineAddLogistic   = "gds.beta.pipeline.linkPrediction.addLogisticRegression"
	ProcPipelineTrain         = "gds.beta.pipeline.linkPrediction.train"
	ProcPipelinePredictStream = "gds.beta.pipeline.linkPrediction.predict.stream"

	ModernPipelineMarker = "pipeline.linkprediction"
)

// Previous generation: direct train.
const (
	ProcGraphCreate      = "gds.graph.create"
	ProcFastRPWrite      = "gds.fastRP.write"
	ProcLegacyTrainBeta  = "gds.beta.ml.linkPrediction.train"
	ProcLegacyTrainAlpha = "gds.alpha.ml.linkPrediction.train"
)

// LegacyTrainCandidates is the order in which legacy training procedures are tried.
var LegacyTrainCandidates = []string{ProcLegacyTrainBeta, ProcLegacyTrainAlpha}

// PredictProcedureFor derives the stream-mode predict procedure paired with a train procedure.
func PredictProcedureFor(trainProcedure string) string {
	name := strings.TrimSpace(trainProcedure)
	if strings.HasSuffix(name, ".train") {
		return strings.TrimSuffix(name, ".train") + ".predict.stream"
	}
	return name + ".predict.stream"
}

// IsLinkPrediction reports whether a registered procedure name belongs to the link-prediction family.
func IsLinkPrediction(name string) bool {
	return strings.Contains(strings.ToLower(name), LinkPredHint)
}
