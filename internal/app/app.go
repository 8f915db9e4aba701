package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/config"
	"github.com/yungbote/neurobridge-graph-analytics/internal/httpapi"
	"github.com/yungbote/neurobridge-graph-analytics/internal/linkpredict"
	"github.com/yungbote/neurobridge-graph-analytics/internal/observability"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

type App struct {
	Log          *logger.Logger
	Config       *config.Config
	Clients      Clients
	Orchestrator *linkpredict.Orchestrator

	server       *http.Server
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	orch, err := wireOrchestrator(log, cfg, clients)
	if err != nil {
		clients.Close(context.Background())
		_ = otelShutdown(context.Background())
		log.Sync()
		return nil, err
	}

	router := wireRouter(log, cfg, clients, orch)
	srv := httpapi.NewServer(httpapi.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}, router)

	return &App{
		Log:          log,
		Config:       cfg,
		Clients:      clients,
		Orchestrator: orch,
		server:       srv,
		otelShutdown: otelShutdown,
	}, nil
}

func wireOrchestrator(log *logger.Logger, cfg *config.Config, clients Clients) (*linkpredict.Orchestrator, error) {
	if clients.Neo4j == nil {
		return nil, fmt.Errorf("link prediction requires a neo4j client")
	}
	lp := cfg.LinkPrediction
	caps := linkpredict.NewCapabilityCache(capabilityCacheOptions(log, cfg, clients))
	return linkpredict.New(linkpredict.Deps{
		Log:       log,
		Connector: clients.Neo4j,
		Settings: linkpredict.Settings{
			NodeLabels:             lp.NodeLabels,
			RelationshipTypes:      lp.RelationshipTypes,
			TargetRelationshipType: lp.TargetRelationshipType,
			EmbeddingDimension:     lp.EmbeddingDimension,
			RandomSeed:             lp.RandomSeed,
			LegacyTrainProcedures:  lp.LegacyTrainProcedures,
		},
		Capabilities:   caps,
		CleanupTimeout: lp.CleanupTimeout,
	})
}

// capabilityCacheOptions scopes the shared snapshot to the configured engine.
func capabilityCacheOptions(log *logger.Logger, cfg *config.Config, clients Clients) linkpredict.CapabilityCacheOptions {
	return linkpredict.CapabilityCacheOptions{
		MaxAge:    cfg.LinkPrediction.CapabilityMaxAge,
		Shared:    clients.sharedStore(),
		SharedKey: linkpredict.CapabilityKey(cfg.Neo4j.URI, cfg.Neo4j.Database),
		Log:       log,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", "addr", a.Config.HTTP.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.Log.Warn("http shutdown incomplete", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Clients.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
