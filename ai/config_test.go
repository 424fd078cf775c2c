package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
	assert.Equal(t, DefaultHost, cfg.GeneratorHost)
	assert.Equal(t, "embedding-2", cfg.EmbeddingModel)
	assert.Equal(t, "glm-4-flash", cfg.GeneratorModel)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.APIKey)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultHost, cfg.EmbeddingHost)
		assert.Equal(t, 2048, cfg.MaxTokens)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:8080/v4"))
		assert.Equal(t, "http://localhost:8080/v4", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:8080/v4", cfg.GeneratorHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080"),
			WithGeneratorHost("http://chat:9090"),
		)
		assert.Equal(t, "http://embed:8080", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090", cfg.GeneratorHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIKey("abc.def"),
			WithEmbeddingModel("embedding-3"),
			WithGeneratorModel("glm-4-air"),
			WithTimeout(3*time.Second),
			WithRateLimit(2, 4),
		)
		assert.Equal(t, "abc.def", cfg.APIKey)
		assert.Equal(t, "embedding-3", cfg.EmbeddingModel)
		assert.Equal(t, "glm-4-air", cfg.GeneratorModel)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, 2.0, cfg.RateLimit)
		assert.Equal(t, 4, cfg.Burst)
	})
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(WithHost(" http://localhost:8080/v4/ "), WithAPIKey(" a.b\n"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:8080/v4", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:8080/v4", cfg.GeneratorHost)
	assert.Equal(t, "a.b", cfg.APIKey)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  []ConfigOption
		field string
	}{
		{name: "valid", opts: []ConfigOption{WithAPIKey("id.secret")}},
		{name: "missing key", opts: nil, field: "credential"},
		{name: "malformed key", opts: []ConfigOption{WithAPIKey("nodot")}, field: "credential"},
		{name: "empty host", opts: []ConfigOption{WithAPIKey("id.secret"), WithEmbeddingHost("")}, field: "embedding host"},
		{name: "empty model", opts: []ConfigOption{WithAPIKey("id.secret"), WithGeneratorModel("")}, field: "generator model"},
		{name: "zero timeout", opts: []ConfigOption{WithAPIKey("id.secret"), WithTimeout(0)}, field: "timeout"},
		{name: "zero rate", opts: []ConfigOption{WithAPIKey("id.secret"), WithRateLimit(0, 1)}, field: "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
