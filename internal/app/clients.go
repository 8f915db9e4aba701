package app

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-graph-analytics/internal/config"
	"github.com/yungbote/neurobridge-graph-analytics/internal/linkpredict"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/neo4jdb"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/rediscache"
)

type Clients struct {
	Neo4j *neo4jdb.Client
	// Redis is nil when no shared cache is configured.
	Redis *rediscache.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	graph, err := neo4jdb.New(ctx, log, cfg.Neo4j)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}

	var store *rediscache.Store
	if cfg.RedisEnabled() {
		s, err := rediscache.New(ctx, log, cfg.Redis)
		if err != nil {
			_ = graph.Close(ctx)
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		store = s
	}

	return Clients{Neo4j: graph, Redis: store}, nil
}

// sharedStore returns the Redis store as a linkpredict.JSONStore, or nil.
// A typed-nil *Store must not leak into the interface.
func (c Clients) sharedStore() linkpredict.JSONStore {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

func (c Clients) Close(ctx context.Context) {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
