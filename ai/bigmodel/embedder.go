package bigmodel

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/metrics"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const opEmbeddings = "embeddings"

// Embedder implements ai.Embedder against the BigModel embeddings endpoint.
type Embedder struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config, cred ai.Credential, limiter *rate.Limiter) *Embedder {
	clientConfig := openai.DefaultConfig("")
	clientConfig.BaseURL = config.EmbeddingHost
	clientConfig.HTTPClient = newHTTPClient(cred, config.TokenTTL)

	return &Embedder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   config.EmbeddingModel,
		limiter: limiter,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "bigmodel-embedder"),
	}
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cred, err := ai.ParseCredential(config.APIKey)
	if err != nil {
		return nil, err
	}
	return newEmbedder(config, cred, newLimiter(config)), nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in one call.
// The response is re-sorted by index and must hold exactly one vector per input.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.logger.Debug("generating embeddings", "count", len(texts))

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, e.fail(&ai.RemoteError{Op: opEmbeddings, Message: "rate limiter: " + err.Error(), Err: err})
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, e.fail(toRemoteError(opEmbeddings, err))
	}
	if len(resp.Data) == 0 {
		return nil, e.fail(&ai.RemoteError{Op: opEmbeddings, Message: "no embeddings returned"})
	}

	data := slices.Clone(resp.Data)
	slices.SortFunc(data, func(a, b openai.Embedding) int {
		return cmp.Compare(a.Index, b.Index)
	})
	if len(data) != len(texts) {
		return nil, e.fail(&ai.RemoteError{Op: opEmbeddings, Message: "embedding count does not match input count"})
	}

	vectors := make([][]float32, len(data))
	for i, d := range data {
		if d.Index != i || len(d.Embedding) == 0 {
			return nil, e.fail(&ai.RemoteError{Op: opEmbeddings, Message: "embedding indexes do not cover the input"})
		}
		vectors[i] = d.Embedding
	}

	metrics.GatewayCalls.WithLabelValues(opEmbeddings, metrics.ResultSuccess).Inc()
	return vectors, nil
}

func (e *Embedder) fail(err *ai.RemoteError) error {
	e.logger.Error("embedding request failed", "status", err.Status, "err", err)
	metrics.GatewayCalls.WithLabelValues(opEmbeddings, metrics.ResultError).Inc()
	return err
}

// toRemoteError maps client errors to *ai.RemoteError, keeping the HTTP status when known.
func toRemoteError(op string, err error) *ai.RemoteError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ai.RemoteError{Op: op, Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ai.RemoteError{Op: op, Status: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return &ai.RemoteError{Op: op, Message: err.Error(), Err: err}
}
