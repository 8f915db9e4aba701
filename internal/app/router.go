package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-graph-analytics/internal/config"
	"github.com/yungbote/neurobridge-graph-analytics/internal/httpapi"
	"github.com/yungbote/neurobridge-graph-analytics/internal/linkpredict"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, clients Clients, orch *linkpredict.Orchestrator) *gin.Engine {
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	readiness := map[string]httpapi.Pinger{"neo4j": clients.Neo4j}
	if clients.Redis != nil {
		readiness["redis"] = clients.Redis
	}

	lp := cfg.LinkPrediction
	return httpapi.NewRouter(httpapi.RouterConfig{
		Log:           log,
		ServiceName:   cfg.Otel.ServiceName,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		HealthHandler: httpapi.NewHealthHandler(readiness),
		LinkPredictionHandler: httpapi.NewLinkPredictionHandler(log, orch, clients.sharedStore(), httpapi.LinkPredictionOptions{
			DefaultTopN:      lp.DefaultTopN,
			DefaultThreshold: lp.DefaultThreshold,
			MaxTopN:          lp.MaxTopN,
			CacheTTL:         lp.ResultCacheTTL,
			RequestTimeout:   cfg.HTTP.RequestTimeout,
		}),
	})
}
