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
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

const opChat = "chat"

// placeholderToken satisfies the client's token check; the signing transport
// replaces the Authorization header on every request.
const placeholderToken = "signed-per-request"

// Generator implements ai.TextGenerator using the BigModel chat completions API.
type Generator struct {
	client      llms.Model
	limiter     *rate.Limiter
	timeout     time.Duration
	temperature float64
	topP        float64
	maxTokens   int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config, cred ai.Credential, limiter *rate.Limiter) (*Generator, error) {
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(placeholderToken),
		openai.WithModel(config.GeneratorModel),
		openai.WithHTTPClient(newHTTPClient(cred, config.TokenTTL)),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		limiter:     limiter,
		timeout:     config.Timeout,
		temperature: config.Temperature,
		topP:        config.TopP,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "bigmodel-generator"),
	}, nil
}

// NewGenerator creates a new text generator using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.TextGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cred, err := ai.ParseCredential(config.APIKey)
	if err != nil {
		return nil, err
	}
	return newGenerator(config, cred, newLimiter(config))
}

// Generate sends a system instruction and a user prompt and returns the reply text.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", g.fail(&ai.RemoteError{Op: opChat, Message: "rate limiter: " + err.Error(), Err: err})
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithTopP(g.topP),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", g.fail(&ai.RemoteError{Op: opChat, Message: err.Error(), Err: err})
	}
	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		return "", g.fail(&ai.RemoteError{Op: opChat, Message: "no content returned"})
	}

	metrics.GatewayCalls.WithLabelValues(opChat, metrics.ResultSuccess).Inc()
	return response.Choices[0].Content, nil
}

func (g *Generator) fail(err *ai.RemoteError) error {
	g.logger.Error("generation request failed", "err", err)
	metrics.GatewayCalls.WithLabelValues(opChat, metrics.ResultError).Inc()
	return err
}
