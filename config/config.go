// Package config loads curator's settings for the binaries.
//
// Precedence, highest first: environment variables, the YAML file, defaults.
// Environment variables carry the CURATOR_ prefix and split into section and
// field on the first underscore after it:
//
//	CURATOR_DATABASE_PATH      -> database.path
//	CURATOR_AI_API_KEY         -> ai.api_key
//	CURATOR_QUOTA_WEEKLY_REPORT -> quota.weekly_report
//
// AI_API_KEY is honored as well when no key is configured otherwise.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/quota"
)

// Config is the complete runtime configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	AI       AIConfig       `koanf:"ai"`
	Server   ServerConfig   `koanf:"server"`
	Quota    QuotaConfig    `koanf:"quota"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig locates the BadgerDB directory.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// CatalogConfig locates the catalog files.
type CatalogConfig struct {
	Enriched string `koanf:"enriched"`
	Plain    string `koanf:"plain"`
}

// AIConfig configures the remote embedding and generation services.
type AIConfig struct {
	APIKey         Secret        `koanf:"api_key"`
	Host           string        `koanf:"host"`
	EmbeddingModel string        `koanf:"embedding_model"`
	GeneratorModel string        `koanf:"generator_model"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	Burst          int           `koanf:"burst"`
	Offline        bool          `koanf:"offline"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// QuotaConfig holds monthly allowances per feature.
type QuotaConfig struct {
	Decompose    int `koanf:"decompose"`
	Recommend    int `koanf:"recommend"`
	WeeklyReport int `koanf:"weekly_report"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Secret is a string redacted when printed.
type Secret string

// String implements fmt.Stringer. Always returns a redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Value returns the actual secret.
func (s Secret) Value() string {
	return string(s)
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	limits := quota.DefaultLimits()
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{Path: "data/curator.db"},
		Catalog: CatalogConfig{
			Enriched: "data/resources_with_embeddings.json",
			Plain:    "data/resources.json",
		},
		AI: AIConfig{
			Host:           ai.DefaultHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			GeneratorModel: aiDefaults.GeneratorModel,
			Timeout:        aiDefaults.Timeout,
			RateLimit:      aiDefaults.RateLimit,
			Burst:          aiDefaults.Burst,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Quota: QuotaConfig{
			Decompose:    limits[core.FeatureDecompose],
			Recommend:    limits[core.FeatureRecommend],
			WeeklyReport: limits[core.FeatureWeeklyReport],
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks values the binaries cannot start without.
func (c *Config) Validate() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	if c.Catalog.Enriched == "" && c.Catalog.Plain == "" {
		return fmt.Errorf("at least one of catalog.enriched and catalog.plain is required")
	}
	if c.Quota.Decompose < 0 || c.Quota.Recommend < 0 || c.Quota.WeeklyReport < 0 {
		return fmt.Errorf("quota limits cannot be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// AIOptions converts the AI section into provider options.
func (c AIConfig) AIOptions() []ai.ConfigOption {
	return []ai.ConfigOption{
		ai.WithAPIKey(c.APIKey.Value()),
		ai.WithHost(c.Host),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithGeneratorModel(c.GeneratorModel),
		ai.WithTimeout(c.Timeout),
		ai.WithRateLimit(c.RateLimit, c.Burst),
	}
}

// Limits converts the quota section into gate limits.
func (c QuotaConfig) Limits() quota.Limits {
	return quota.Limits{
		core.FeatureDecompose:    c.Decompose,
		core.FeatureRecommend:    c.Recommend,
		core.FeatureWeeklyReport: c.WeeklyReport,
	}
}
