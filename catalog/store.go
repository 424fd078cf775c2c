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

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/metrics"
	"golang.org/x/sync/singleflight"
)

const loadKey = "catalog"

// DefaultLoadTimeout bounds a single catalog load.
const DefaultLoadTimeout = 30 * time.Second

// Store memoizes the catalog for its lifetime.
type Store struct {
	sources     []Source
	logger      *slog.Logger
	loadTimeout time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	items []*core.CatalogItem
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "catalog")
		return nil
	}
}

// WithLoadTimeout bounds how long one load may read the sources.
// Non-positive values keep DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Store) error {
		if d > 0 {
			s.loadTimeout = d
		}
		return nil
	}
}

// NewStore creates a store that reads enriched first and plain second.
// Either source may be nil, but not both.
func NewStore(enriched, plain Source, opts ...Option) (*Store, error) {
	s := &Store{
		logger:      slog.Default().With("component", "catalog"),
		loadTimeout: DefaultLoadTimeout,
	}
	for _, src := range []Source{enriched, plain} {
		if src != nil {
			s.sources = append(s.sources, src)
		}
	}
	if len(s.sources) == 0 {
		return nil, ErrSourceRequired
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load returns the catalog, reading the sources on first use.
// The returned slice is shared and must not be modified.
// An empty result means every source failed or ctx ended first. A load in
// flight is not cut short when the caller that started it goes away.
func (s *Store) Load(ctx context.Context) []*core.CatalogItem {
	if items := s.cached(); items != nil {
		return items
	}

	ch := s.group.DoChan(loadKey, func() (any, error) {
		// A caller that lost the race to an earlier flight finds the result here.
		if items := s.cached(); items != nil {
			return items, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		items := s.read(loadCtx)
		if len(items) > 0 {
			s.mu.Lock()
			s.items = items
			s.mu.Unlock()
		}
		return items, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]*core.CatalogItem)
	case <-ctx.Done():
		return []*core.CatalogItem{}
	}
}

// Loaded reports whether a catalog has been cached.
func (s *Store) Loaded() bool {
	return s.cached() != nil
}

func (s *Store) cached() []*core.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *Store) read(ctx context.Context) []*core.CatalogItem {
	for i, src := range s.sources {
		items, err := src.ReadCatalog(ctx)
		if err != nil {
			s.logger.Warn("catalog source failed", "source", i, "err", err)
			continue
		}
		if len(items) == 0 {
			s.logger.Warn("catalog source is empty", "source", i)
			continue
		}

		vectorized := 0
		for _, item := range items {
			if item.HasEmbedding() {
				vectorized++
			}
		}
		metrics.CatalogItems.WithLabelValues("total").Set(float64(len(items)))
		metrics.CatalogItems.WithLabelValues("vectorized").Set(float64(vectorized))
		s.logger.Info("catalog loaded", "source", i, "items", len(items), "vectorized", vectorized)
		return items
	}
	s.logger.Error("no catalog source available")
	return []*core.CatalogItem{}
}
