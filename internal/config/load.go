package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/observability"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/envutil"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/neo4jdb"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/rediscache"
)

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ShutdownTimeout:   15 * time.Second,
			RequestTimeout:    10 * time.Minute,
			CORSOrigins:       []string{"http://localhost:3000"},
		},
		Neo4j: neo4jdb.Config{
			URI:  "neo4j://localhost:7687",
			User: "neo4j",
		},
		Otel: observability.OtelConfig{
			ServiceName: "neurobridge-graph-analytics",
			SampleRatio: 1,
		},
		LinkPrediction: LinkPredictionConfig{
			NodeLabels:            []string{"*"},
			RelationshipTypes:     []string{"*"},
			EmbeddingDimension:    64,
			RandomSeed:            42,
			LegacyTrainProcedures: append([]string(nil), gds.LegacyTrainCandidates...),
			DefaultTopN:           20,
			DefaultThreshold:      0.4,
			MaxTopN:               1000,
			ResultCacheTTL:        60 * time.Second,
			CleanupTimeout:        30 * time.Second,
		},
	}
}

// Load builds the config from defaults, an optional YAML file and env overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ANALYTICS_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		// Unmarshal over the defaults so a partial file only overrides what it sets.
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("ANALYTICS_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.CORSOrigins = envutil.List("ANALYTICS_CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.HTTP.RequestTimeout = envutil.Duration("ANALYTICS_REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout)

	cfg.Neo4j = neo4jdb.ConfigFromEnv(cfg.Neo4j)
	cfg.Redis = rediscache.ConfigFromEnv(cfg.Redis)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); raw != "" {
		cfg.Otel.Headers = observability.ParseHeaders(raw)
	}
	if cfg.Otel.Environment == "" {
		cfg.Otel.Environment = cfg.Env
	}

	lp := &cfg.LinkPrediction
	lp.NodeLabels = envutil.List("LINKPRED_NODE_LABELS", lp.NodeLabels)
	lp.RelationshipTypes = envutil.List("LINKPRED_RELATIONSHIP_TYPES", lp.RelationshipTypes)
	lp.TargetRelationshipType = envutil.String("LINKPRED_TARGET_RELATIONSHIP_TYPE", lp.TargetRelationshipType)
	lp.EmbeddingDimension = envutil.Int("LINKPRED_EMBEDDING_DIMENSION", lp.EmbeddingDimension)
	lp.RandomSeed = envutil.Int64("LINKPRED_RANDOM_SEED", lp.RandomSeed)
	lp.LegacyTrainProcedures = envutil.List("LINKPRED_LEGACY_TRAIN_PROCEDURES", lp.LegacyTrainProcedures)
	lp.DefaultTopN = envutil.Int("LINKPRED_DEFAULT_TOP_N", lp.DefaultTopN)
	lp.DefaultThreshold = envutil.Float("LINKPRED_DEFAULT_THRESHOLD", lp.DefaultThreshold)
	lp.MaxTopN = envutil.Int("LINKPRED_MAX_TOP_N", lp.MaxTopN)
	lp.CapabilityMaxAge = envutil.Duration("LINKPRED_CAPABILITY_MAX_AGE", lp.CapabilityMaxAge)
	lp.ResultCacheTTL = envutil.Duration("LINKPRED_RESULT_CACHE_TTL", lp.ResultCacheTTL)
	lp.CleanupTimeout = envutil.Duration("LINKPRED_CLEANUP_TIMEOUT", lp.CleanupTimeout)
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Neo4j.URI) == "" {
		return errors.New("neo4j uri is required (NEO4J_URI)")
	}

	lp := &cfg.LinkPrediction
	if lp.EmbeddingDimension <= 0 {
		return fmt.Errorf("link_prediction.embedding_dimension must be > 0 (got %d)", lp.EmbeddingDimension)
	}
	if lp.MaxTopN <= 0 {
		return fmt.Errorf("link_prediction.max_top_n must be > 0 (got %d)", lp.MaxTopN)
	}
	if lp.DefaultTopN <= 0 || lp.DefaultTopN > lp.MaxTopN {
		return fmt.Errorf("link_prediction.default_top_n must be within 1..%d (got %d)", lp.MaxTopN, lp.DefaultTopN)
	}
	if lp.DefaultThreshold < 0 || lp.DefaultThreshold > 1 {
		return fmt.Errorf("link_prediction.default_threshold must be within [0,1] (got %v)", lp.DefaultThreshold)
	}
	if lp.CapabilityMaxAge < 0 || lp.ResultCacheTTL < 0 {
		return errors.New("link_prediction cache durations must not be negative")
	}
	if len(lp.LegacyTrainProcedures) == 0 {
		lp.LegacyTrainProcedures = append([]string(nil), gds.LegacyTrainCandidates...)
	}
	return nil
}
