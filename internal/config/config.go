package config

import (
	"time"

	"github.com/yungbote/neurobridge-graph-analytics/internal/observability"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/neo4jdb"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/rediscache"
)

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	// RequestTimeout bounds a single link-prediction job started over HTTP.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

type LinkPredictionConfig struct {
	NodeLabels             []string `yaml:"node_labels"`
	RelationshipTypes      []string `yaml:"relationship_types"`
	TargetRelationshipType string   `yaml:"target_relationship_type"`
	EmbeddingDimension     int      `yaml:"embedding_dimension"`
	RandomSeed             int64    `yaml:"random_seed"`
	LegacyTrainProcedures  []string `yaml:"legacy_train_procedures"`

	DefaultTopN      int     `yaml:"default_top_n"`
	DefaultThreshold float64 `yaml:"default_threshold"`
	MaxTopN          int     `yaml:"max_top_n"`

	// CapabilityMaxAge of 0 keeps a detected snapshot until it is refreshed.
	CapabilityMaxAge time.Duration `yaml:"capability_max_age"`
	// ResultCacheTTL of 0 disables the shared result cache.
	ResultCacheTTL time.Duration `yaml:"result_cache_ttl"`
	CleanupTimeout time.Duration `yaml:"cleanup_timeout"`
}

type Config struct {
	Env            string                   `yaml:"env"`
	HTTP           HTTPConfig               `yaml:"http"`
	Neo4j          neo4jdb.Config           `yaml:"neo4j"`
	Redis          rediscache.Config        `yaml:"redis"`
	Otel           observability.OtelConfig `yaml:"otel"`
	LinkPrediction LinkPredictionConfig     `yaml:"link_prediction"`
}

// RedisEnabled reports whether a shared cache is configured.
func (c *Config) RedisEnabled() bool {
	return c != nil && c.Redis.Addr != ""
}
