package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/metrics"
)

const pathExhausted = "exhausted"

// Catalog supplies the candidate set. An empty result means unavailable.
type Catalog interface {
	Load(ctx context.Context) []*core.CatalogItem
}

// RankResult is the outcome of a ranking.
type RankResult struct {
	Items []ScoredItem `json:"items"`
	Path  Path         `json:"path,omitempty"`
	// Exhausted is set when the exclusion set removed every candidate.
	Exhausted bool `json:"exhausted"`
}

// Ranker ranks catalog resources, preferring semantic scoring.
type Ranker struct {
	catalog  Catalog
	semantic *SemanticScorer
	logger   *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a ranker. A nil embedder disables semantic scoring.
func NewRanker(catalog Catalog, embedder ai.Embedder, opts ...Option) (*Ranker, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}

	r := &Ranker{
		catalog: catalog,
		logger:  slog.Default(),
	}
	if embedder != nil {
		r.semantic = NewSemanticScorer(embedder)
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "ranker")

	return r, nil
}

// Rank returns up to query.Limit resources (DefaultRankLimit when zero).
func (r *Ranker) Rank(ctx context.Context, query *core.Query) (*RankResult, error) {
	return r.RankWithMonitor(ctx, query, nil)
}

// RankWithMonitor ranks resources with monitoring.
// The monitor receives callbacks at each stage of the ranking process.
//
// Excluded ids never appear in the result. When exclusions leave nothing to
// rank the result is marked Exhausted. Semantic failures fall back to the
// heuristic scorer and are not returned.
func (r *Ranker) RankWithMonitor(ctx context.Context, query *core.Query, monitor RankMonitor) (*RankResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()
	defer func() {
		metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}()

	monitor.Start(query)

	items := r.catalog.Load(ctx)
	monitor.AfterLoad(len(items))
	if len(items) == 0 {
		r.logger.Error("catalog unavailable")
		return nil, ErrCatalogUnavailable
	}

	candidates := exclude(items, query.ExcludeIDs)
	monitor.AfterExclusion(len(candidates))
	if len(candidates) == 0 {
		result := &RankResult{Items: []ScoredItem{}, Exhausted: true}
		metrics.RankingsTotal.WithLabelValues(pathExhausted).Inc()
		monitor.Finish(result)
		return result, nil
	}

	k := query.Limit
	if k == 0 {
		k = core.DefaultRankLimit
	}

	result := r.rank(ctx, query, candidates, k, monitor)

	metrics.RankingsTotal.WithLabelValues(string(result.Path)).Inc()
	r.logger.Debug("ranked resources", "path", result.Path, "candidates", len(candidates), "returned", len(result.Items))
	monitor.Finish(result)

	return result, nil
}

func (r *Ranker) rank(ctx context.Context, query *core.Query, candidates []*core.CatalogItem, k int, monitor RankMonitor) *RankResult {
	if r.semantic != nil {
		scored, path, err := r.semantic.Rank(ctx, query, candidates, k)
		if err == nil {
			return &RankResult{Items: scored, Path: path}
		}
		r.logger.Warn("semantic ranking failed, using heuristics", "err", err)
		metrics.RankingFallbacks.Inc()
		monitor.SemanticFailed(err)
	}
	return &RankResult{Items: RankHeuristic(query, candidates, k), Path: PathHeuristic}
}

// exclude drops excluded and repeated ids, keeping catalog order.
func exclude(items []*core.CatalogItem, excludeIDs []core.ResourceID) []*core.CatalogItem {
	skip := make(map[core.ResourceID]struct{}, len(excludeIDs)+len(items))
	for _, id := range excludeIDs {
		skip[id] = struct{}{}
	}
	out := make([]*core.CatalogItem, 0, len(items))
	for _, item := range items {
		if _, ok := skip[item.ID]; ok {
			continue
		}
		skip[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
