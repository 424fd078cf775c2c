// Package quota enforces per-user, per-feature monthly usage limits.
//
// Counters live in one record per user keyed by calendar month (UTC). A
// record from an earlier month counts as zero, so limits reset on the first
// consume of a new month without any background job.
package quota

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/metrics"
	"github.com/poiesic/curator/storage"
)

// ErrUsageRepositoryRequired is returned when a usage repository is not provided.
var ErrUsageRepositoryRequired = errors.New("usage repository required")

// Limits maps each feature to its monthly allowance.
type Limits map[core.Feature]int

// DefaultLimits returns the standard monthly allowances.
func DefaultLimits() Limits {
	return Limits{
		core.FeatureDecompose:    5,
		core.FeatureRecommend:    3,
		core.FeatureWeeklyReport: 1,
	}
}

const (
	decisionGranted = "granted"
	decisionDenied  = "denied"
)

// Gate checks and consumes feature quota.
type Gate struct {
	usage  storage.UsageRepository
	limits Limits
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLimits overrides allowances for the given features. Features not
// present keep their default. Negative limits are treated as zero.
func WithLimits(limits Limits) Option {
	return func(g *Gate) {
		for f, n := range limits {
			g.limits[f] = max(n, 0)
		}
	}
}

// WithClock sets the time source used to pick the current month.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate creates a quota gate over the usage repository.
func NewGate(usage storage.UsageRepository, opts ...Option) (*Gate, error) {
	if usage == nil {
		return nil, ErrUsageRepositoryRequired
	}
	g := &Gate{
		usage:  usage,
		limits: DefaultLimits(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "quota")
	return g, nil
}

// Limit returns the monthly allowance of a feature.
func (g *Gate) Limit(feature core.Feature) int {
	return g.limits[feature]
}

// Remaining returns how many uses of the feature are left this month.
func (g *Gate) Remaining(ctx context.Context, userID string, feature core.Feature) (int, error) {
	if err := g.validate(userID, feature); err != nil {
		return 0, err
	}
	used, err := g.used(ctx, userID)
	if err != nil {
		return 0, err
	}
	return max(g.limits[feature]-used[feature], 0), nil
}

// TryConsume takes one use of the feature if any remain.
// A denial is reported as false with a nil error.
func (g *Gate) TryConsume(ctx context.Context, userID string, feature core.Feature) (bool, error) {
	if err := g.validate(userID, feature); err != nil {
		return false, err
	}

	month := core.MonthKey(g.now())
	limit := g.limits[feature]
	var granted bool

	err := g.usage.UpdateUsage(ctx, userID, func(current *core.UsageRecord) (*core.UsageRecord, error) {
		counts := map[core.Feature]int{}
		if current != nil && current.Month == month {
			counts = maps.Clone(current.Counts)
		}
		granted = counts[feature] < limit
		if !granted {
			return nil, nil
		}
		counts[feature]++
		return &core.UsageRecord{Month: month, Counts: counts}, nil
	})
	if err != nil {
		return false, err
	}

	decision := decisionGranted
	if !granted {
		decision = decisionDenied
		g.logger.Info("quota exhausted", "user", userID, "feature", feature, "limit", limit)
	}
	metrics.QuotaDecisions.WithLabelValues(string(feature), decision).Inc()
	return granted, nil
}

// Status reports every feature's usage for the current month.
func (g *Gate) Status(ctx context.Context, userID string) ([]core.FeatureUsage, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}
	used, err := g.used(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := make([]core.FeatureUsage, 0, len(core.Features))
	for _, f := range core.Features {
		limit := g.limits[f]
		status = append(status, core.FeatureUsage{
			Feature:   f,
			Used:      used[f],
			Limit:     limit,
			Remaining: max(limit-used[f], 0),
		})
	}
	return status, nil
}

// used returns this month's counters, empty when the stored record is from
// another month or absent.
func (g *Gate) used(ctx context.Context, userID string) (map[core.Feature]int, error) {
	rec, err := g.usage.GetUsage(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return map[core.Feature]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Month != core.MonthKey(g.now()) {
		return map[core.Feature]int{}, nil
	}
	return rec.Counts, nil
}

func (g *Gate) validate(userID string, feature core.Feature) error {
	if userID == "" {
		return core.ErrEmptyUserID
	}
	return core.ValidateFeature(feature)
}
