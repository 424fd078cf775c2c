// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"strings"
	"time"
)

// DefaultHost is the BigModel OpenAI-compatible API root.
const DefaultHost = "https://open.bigmodel.cn/api/paas/v4"

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey is the two-part "id.secret" credential used to sign requests.
	APIKey string

	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// GeneratorHost is the base URL for the chat completion service API.
	GeneratorHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embedding-2"
	EmbeddingModel string

	// GeneratorModel is the model identifier to use for text generation.
	// Example: "glm-4-flash"
	GeneratorModel string

	// Temperature, TopP and MaxTokens are passed to the generator.
	Temperature float64
	TopP        float64
	MaxTokens   int

	// Timeout bounds every remote call. A call past it is a failure.
	Timeout time.Duration

	// RateLimit is the sustained number of requests per second allowed
	// toward the remote services; Burst is the bucket size.
	RateLimit float64
	Burst     int

	// TokenTTL is the lifetime of each signed request token.
	TokenTTL time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the "id.secret" credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithHost sets both embedding and generator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GeneratorHost = host
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the generator service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the generator model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRateLimit sets the client-side request rate and burst.
func WithRateLimit(perSecond float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RateLimit = perSecond
		c.Burst = burst
	}
}

// DefaultConfig returns a Config pointed at BigModel with conservative limits.
// The API key is left empty.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  DefaultHost,
		GeneratorHost:  DefaultHost,
		EmbeddingModel: "embedding-2",
		GeneratorModel: "glm-4-flash",
		Temperature:    0.7,
		TopP:           0.9,
		MaxTokens:      2048,
		Timeout:        10 * time.Second,
		RateLimit:      5,
		Burst:          5,
		TokenTTL:       DefaultTokenTTL,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("AI_API_KEY")),
//	    WithTimeout(5*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize trims whitespace and trailing slashes from the hosts.
func (c *Config) Normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.EmbeddingHost = strings.TrimRight(strings.TrimSpace(c.EmbeddingHost), "/")
	c.GeneratorHost = strings.TrimRight(strings.TrimSpace(c.GeneratorHost), "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// Every failure is a *ConfigError.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseCredential(c.APIKey); err != nil {
		return err
	}
	if c.EmbeddingHost == "" {
		return &ConfigError{Field: "embedding host", Reason: "required"}
	}
	if c.GeneratorHost == "" {
		return &ConfigError{Field: "generator host", Reason: "required"}
	}
	if c.EmbeddingModel == "" {
		return &ConfigError{Field: "embedding model", Reason: "required"}
	}
	if c.GeneratorModel == "" {
		return &ConfigError{Field: "generator model", Reason: "required"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Reason: "must be positive"}
	}
	if c.RateLimit <= 0 || c.Burst < 1 {
		return &ConfigError{Field: "rate limit", Reason: "rate and burst must be positive"}
	}
	if c.TokenTTL <= 0 {
		return &ConfigError{Field: "token ttl", Reason: "must be positive"}
	}
	return nil
}
