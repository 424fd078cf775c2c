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

// Package curator ranks startup resources and tasks for a single user.
//
// Engine wires the catalog, the rankers, the personalization ledger and the
// usage quota gate over one BadgerDB store. Rankings degrade to local
// heuristics when the remote services fail; decomposition has no fallback
// and reports the failure.
package curator

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/bigmodel"
	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/decompose"
	"github.com/poiesic/curator/ledger"
	"github.com/poiesic/curator/priority"
	"github.com/poiesic/curator/quota"
	"github.com/poiesic/curator/search"
	"github.com/poiesic/curator/storage/badger"
)

// ErrRemoteUnavailable is returned by operations that need the remote text
// generator when the engine runs offline.
var ErrRemoteUnavailable = errors.New("remote text generation unavailable")

// Engine is the entry point for every curator operation.
type Engine struct {
	repos       *badger.Repositories
	provider    ai.Provider
	catalog     *catalog.Store
	ranker      *search.Ranker
	prioritizer *priority.Prioritizer
	decomposer  *decompose.Decomposer
	ledger      *ledger.Ledger
	gate        *quota.Gate
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	offline  bool
	inMemory bool
	enriched catalog.Source
	plain    catalog.Source
	limits   quota.Limits
	clock    func() time.Time
	logger   *slog.Logger
}

// WithAIConfig sets the remote service configuration.
// Default is ai.DefaultConfig(), which needs an API key to be usable.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an existing AI provider instead of building one.
// The engine closes it on Close. It cancels an earlier WithOffline.
func WithProvider(provider ai.Provider) Option {
	return func(o *engineOptions) {
		o.provider = provider
		o.offline = false
	}
}

// WithOffline disables every remote call. Rankings use heuristics only,
// prioritization uses the baseline and decomposition is unavailable.
func WithOffline() Option {
	return func(o *engineOptions) {
		o.offline = true
		o.provider = nil
	}
}

// WithInMemory keeps all state in memory. The database path is ignored.
func WithInMemory() Option {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithCatalogFiles reads the catalog from the enriched file, falling back to
// the plain one. Either path may be empty.
func WithCatalogFiles(enriched, plain string) Option {
	return func(o *engineOptions) {
		o.enriched, o.plain = nil, nil
		if enriched != "" {
			o.enriched = catalog.NewFileSource(enriched)
		}
		if plain != "" {
			o.plain = catalog.NewFileSource(plain)
		}
	}
}

// WithCatalogSources reads the catalog from arbitrary sources.
func WithCatalogSources(enriched, plain catalog.Source) Option {
	return func(o *engineOptions) {
		o.enriched, o.plain = enriched, plain
	}
}

// WithQuotaLimits overrides monthly feature allowances.
func WithQuotaLimits(limits quota.Limits) Option {
	return func(o *engineOptions) {
		o.limits = limits
	}
}

// WithClock sets the time source for quota months and interaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens the store at dbPath and builds every component.
func NewEngine(dbPath string, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.enriched == nil && options.plain == nil {
		options.enriched = catalog.NewFileSource("data/resources_with_embeddings.json")
		options.plain = catalog.NewFileSource("data/resources.json")
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	repos, err := badger.OpenRepositories(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		repos:  repos,
		logger: logger.With("component", "engine"),
	}
	if err := e.build(options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) build(options *engineOptions) error {
	logger := options.logger

	var embedder ai.Embedder
	var generator ai.TextGenerator
	if !options.offline {
		provider := options.provider
		if provider == nil {
			var err error
			provider, err = bigmodel.NewProvider(options.aiConfig)
			if err != nil {
				return err
			}
		}
		e.provider = provider
		embedder = provider.Embedder()
		generator = provider.Generator()
	}

	store, err := catalog.NewStore(options.enriched, options.plain, catalog.WithLogger(logger))
	if err != nil {
		return err
	}
	e.catalog = store

	if e.ranker, err = search.NewRanker(store, embedder, search.WithLogger(logger)); err != nil {
		return err
	}
	if e.prioritizer, err = priority.NewPrioritizer(generator, priority.WithLogger(logger)); err != nil {
		return err
	}
	if generator != nil {
		if e.decomposer, err = decompose.NewDecomposer(generator, decompose.WithLogger(logger)); err != nil {
			return err
		}
	}

	ledgerOpts := []ledger.Option{ledger.WithLogger(logger), ledger.WithClock(options.clock)}
	if e.ledger, err = ledger.NewLedger(e.repos.Interactions, e.repos.Tags, e.repos.Feedback, ledgerOpts...); err != nil {
		return err
	}

	gateOpts := []quota.Option{quota.WithLogger(logger), quota.WithClock(options.clock)}
	if options.limits != nil {
		gateOpts = append(gateOpts, quota.WithLimits(options.limits))
	}
	if e.gate, err = quota.NewGate(e.repos.Usage, gateOpts...); err != nil {
		return err
	}
	return nil
}

// Close waits for pending feedback writes and releases every resource.
func (e *Engine) Close() error {
	if e.ledger != nil {
		e.ledger.Close()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing repositories", "err", err)
		return err
	}
	return nil
}

// Offline reports whether remote services are disabled.
func (e *Engine) Offline() bool {
	return e.provider == nil
}

// Catalog returns the candidate store.
func (e *Engine) Catalog() *catalog.Store {
	return e.catalog
}
