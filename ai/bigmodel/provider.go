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

package bigmodel

import (
	"log/slog"

	"github.com/poiesic/curator/ai"
	"golang.org/x/time/rate"
)

// Provider implements ai.Provider using the BigModel services.
// The embedder and generator share one credential and one rate limiter.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider.
// The config is validated and normalized before use; a missing or malformed
// credential yields *ai.ConfigError.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cred, err := ai.ParseCredential(config.APIKey)
	if err != nil {
		return nil, err
	}

	limiter := newLimiter(config)
	generator, err := newGenerator(config, cred, limiter)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "bigmodel-provider")
	logger.Debug("provider ready", "credential", cred, "embedding_model", config.EmbeddingModel, "generator_model", config.GeneratorModel)

	return &Provider{
		config:    config,
		embedder:  newEmbedder(config, cred, limiter),
		generator: generator,
		logger:    logger,
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.TextGenerator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing BigModel provider")
	return nil
}

func newLimiter(config *ai.Config) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst)
}
