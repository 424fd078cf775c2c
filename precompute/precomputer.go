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

package precompute

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/core"
)

// Config holds configuration for a precompute run.
type Config struct {
	// BatchSize is the number of resources embedded per request
	BatchSize int

	// BatchDelay is the pause between batch requests
	BatchDelay time.Duration

	// ItemDelay is the pause between single-resource requests after a batch failed
	ItemDelay time.Duration

	// MaxRetries is the maximum number of attempts per request
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ReportInterval is how often to report progress (number of resources)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      10,
		BatchDelay:     time.Second,
		ItemDelay:      200 * time.Millisecond,
		MaxRetries:     3,
		RetryDelay:     time.Second,
		ReportInterval: 10,
	}
}

// Report summarizes a finished run.
type Report struct {
	Total    int
	Embedded int // vectors fetched from the embedding service
	Reused   int // vectors carried over from the previous enriched catalog
	Missing  int // resources written without a vector
	Elapsed  time.Duration
}

// Precomputer embeds a catalog and writes the enriched file.
type Precomputer struct {
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	previous catalog.Source
	logger   *slog.Logger
}

// Option configures a Precomputer.
type Option func(*Precomputer)

// WithPrevious supplies an earlier enriched catalog whose vectors are reused
// for resources with unchanged text.
func WithPrevious(src catalog.Source) Option {
	return func(p *Precomputer) {
		p.previous = src
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Precomputer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPrecomputer creates a precomputer.
// progress: where to write progress output (typically os.Stderr), nil to discard
func NewPrecomputer(embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) (*Precomputer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	p := &Precomputer{
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "precompute")
	return p, nil
}

// Text returns the text embedded for a resource.
func Text(item *core.CatalogItem) string {
	return strings.TrimSpace(item.Title + " " + item.Description)
}

// Run reads the plain catalog from src, embeds it and writes the enriched
// catalog to outPath. The output keeps the input order.
func (p *Precomputer) Run(ctx context.Context, src catalog.Source, outPath string) (*Report, error) {
	items, err := src.ReadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	report := &Report{Total: len(items)}
	out := make([]*core.CatalogItem, len(items))
	for i, item := range items {
		copied := *item
		copied.Embedding = nil
		out[i] = &copied
	}

	reusable := p.reusableVectors(ctx)
	var pending []*core.CatalogItem
	for _, item := range out {
		if vec, ok := reusable[core.IDFromContent(Text(item))]; ok {
			item.Embedding = vec
			report.Reused++
			continue
		}
		pending = append(pending, item)
	}

	batchSize := max(p.config.BatchSize, 1)
	fmt.Fprintf(p.progress, "Embedding %d of %d resources (%d reused, batch size: %d)\n",
		len(pending), len(items), report.Reused, batchSize)

	tracker := NewProgressTracker(p.progress, len(items), p.config.ReportInterval)
	tracker.Start()
	tracker.Done(report.Reused, 0)

	for start := 0; start < len(pending); start += batchSize {
		if start > 0 {
			if err := sleep(ctx, p.config.BatchDelay); err != nil {
				return nil, err
			}
		}

		batch := pending[start:min(start+batchSize, len(pending))]
		missing, err := p.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		report.Embedded += len(batch) - missing
		report.Missing += missing
		tracker.Done(len(batch), missing)
	}

	tracker.Finish()

	if err := catalog.WriteFile(outPath, out); err != nil {
		return nil, fmt.Errorf("failed to write enriched catalog: %w", err)
	}

	report.Elapsed = tracker.Elapsed()
	fmt.Fprintf(p.progress, "Precompute complete. %d embedded, %d reused, %d without vector in %v\n",
		report.Embedded, report.Reused, report.Missing, report.Elapsed.Round(time.Millisecond))

	return report, nil
}

// embedBatch fills in vectors for a batch. When the batch request fails the
// resources are embedded one at a time. Returns how many stayed without a
// vector; only context errors are returned.
func (p *Precomputer) embedBatch(ctx context.Context, batch []*core.CatalogItem) (int, error) {
	texts := make([]string, len(batch))
	for i, item := range batch {
		texts[i] = Text(item)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = p.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(embeddings) != len(texts) {
			err = fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
		}
		return err
	}, p.config.MaxRetries, p.config.RetryDelay)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	if err == nil {
		missing := 0
		for i, item := range batch {
			if len(embeddings[i]) == 0 {
				missing++
				continue
			}
			item.Embedding = core.NormalizeVector(embeddings[i])
		}
		return missing, nil
	}

	p.logger.Warn("batch failed, embedding resources one by one", "size", len(batch), "err", err)

	missing := 0
	for i, item := range batch {
		if i > 0 {
			if err := sleep(ctx, p.config.ItemDelay); err != nil {
				return 0, err
			}
		}

		var vec []float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vec, err = p.embedder.EmbedText(ctx, texts[i])
			return err
		}, p.config.MaxRetries, p.config.RetryDelay)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if err != nil || len(vec) == 0 {
			p.logger.Error("resource left without vector", "id", item.ID, "title", item.Title, "err", err)
			missing++
			continue
		}
		item.Embedding = core.NormalizeVector(vec)
	}
	return missing, nil
}

// reusableVectors indexes the previous enriched catalog by embedded text.
func (p *Precomputer) reusableVectors(ctx context.Context) map[core.ID][]float32 {
	vectors := map[core.ID][]float32{}
	if p.previous == nil {
		return vectors
	}

	items, err := p.previous.ReadCatalog(ctx)
	if err != nil {
		p.logger.Info("previous enriched catalog unavailable, embedding everything", "err", err)
		return vectors
	}
	for _, item := range items {
		if item.HasEmbedding() {
			vectors[core.IDFromContent(Text(item))] = item.Embedding
		}
	}
	return vectors
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
