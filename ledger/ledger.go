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

package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/metrics"
	"github.com/poiesic/curator/storage"
)

const defaultWriteTimeout = 10 * time.Second

// Outcome describes what Record did.
type Outcome struct {
	Action core.Action    `json:"action"`
	Change storage.Change `json:"-"`
	// Active is false when an opinion was undone.
	Active bool `json:"active"`
}

// Ledger records interactions and derives personalization signals.
type Ledger struct {
	interactions storage.InteractionRepository
	tags         storage.TagCache
	feedback     storage.FeedbackRepository
	pool         *ants.Pool
	pending      sync.WaitGroup
	writeTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger) error

// WithPoolSize sets the worker pool size for feedback writes.
// Default is 1, which applies writes in submission order. Larger pools may
// reorder writes for the same resource.
func WithPoolSize(size int) Option {
	return func(l *Ledger) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if l.pool != nil {
			l.pool.Release()
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithClock sets the time source for interaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) error {
		if now != nil {
			l.now = now
		}
		return nil
	}
}

// WithWriteTimeout bounds each feedback store write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(l *Ledger) error {
		if timeout > 0 {
			l.writeTimeout = timeout
		}
		return nil
	}
}

// NewLedger creates a ledger. feedback may be nil to disable write-through.
func NewLedger(
	interactions storage.InteractionRepository,
	tags storage.TagCache,
	feedback storage.FeedbackRepository,
	opts ...Option,
) (*Ledger, error) {
	if interactions == nil {
		return nil, ErrInteractionRepositoryRequired
	}
	if tags == nil {
		return nil, ErrTagCacheRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		interactions: interactions,
		tags:         tags,
		feedback:     feedback,
		pool:         pool,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.pool.Release()
			return nil, optErr
		}
	}
	l.logger = l.logger.With("component", "ledger")

	return l, nil
}

// Record applies an interaction. Non-empty tags are cached for the resource
// so later likes contribute them to the liked-tag set.
func (l *Ledger) Record(ctx context.Context, userID string, resourceID core.ResourceID, action core.Action, tags []string) (*Outcome, error) {
	if err := core.ValidateInteraction(userID, resourceID, action); err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		if err := l.tags.CacheTags(ctx, resourceID, tags); err != nil {
			return nil, err
		}
	}

	at := l.now().UTC()
	if !action.IsOpinion() {
		event := &core.Interaction{ResourceID: resourceID, Action: action, Timestamp: at}
		if err := l.interactions.AppendEvent(ctx, userID, event); err != nil {
			return nil, err
		}
		return &Outcome{Action: action, Change: storage.ChangeCreated, Active: true}, nil
	}

	stored, change, err := l.interactions.ToggleOpinion(ctx, userID, resourceID, action, at)
	if err != nil {
		return nil, err
	}
	l.writeThrough(userID, resourceID, stored)

	return &Outcome{Action: action, Change: change, Active: stored != nil}, nil
}

// writeThrough submits the opinion left by a toggle to the feedback store
// without waiting. A nil opinion removes the stored record.
func (l *Ledger) writeThrough(userID string, resourceID core.ResourceID, opinion *core.Interaction) {
	if l.feedback == nil {
		return
	}

	l.pending.Add(1)
	err := l.pool.Submit(func() {
		defer l.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
		defer cancel()

		if _, err := l.feedback.SyncFeedback(ctx, userID, resourceID, opinion); err != nil {
			l.logger.Error("feedback write failed", "user", userID, "resource", resourceID, "err", err)
			metrics.FeedbackWrites.WithLabelValues(metrics.ResultError).Inc()
			return
		}
		metrics.FeedbackWrites.WithLabelValues(metrics.ResultSuccess).Inc()
	})
	if err != nil {
		l.pending.Done()
		l.logger.Error("feedback write dropped", "user", userID, "resource", resourceID, "err", err)
		metrics.FeedbackWrites.WithLabelValues("dropped").Inc()
	}
}

// CacheTags remembers the tags of resources shown to the user.
func (l *Ledger) CacheTags(ctx context.Context, items []*core.CatalogItem) error {
	var errs []error
	for _, item := range items {
		if len(item.Tags) == 0 {
			continue
		}
		if err := l.tags.CacheTags(ctx, item.ID, item.Tags); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LikedTags returns the sorted union of cached tags of every liked resource.
// Liked resources without cached tags contribute nothing.
func (l *Ledger) LikedTags(ctx context.Context, userID string) ([]string, error) {
	opinions, err := l.interactions.ListOpinions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var liked []core.ResourceID
	for _, op := range opinions {
		if op.Action == core.ActionLike {
			liked = append(liked, op.ResourceID)
		}
	}
	if len(liked) == 0 {
		return []string{}, nil
	}

	cached, err := l.tags.GetTags(ctx, liked...)
	if err != nil {
		return nil, err
	}

	union := make(map[string]struct{})
	for _, tags := range cached {
		for _, tag := range tags {
			union[tag] = struct{}{}
		}
	}
	result := make([]string, 0, len(union))
	for tag := range union {
		result = append(result, tag)
	}
	slices.Sort(result)
	return result, nil
}

// InteractionFor returns the user's current interaction with a resource: the
// active opinion if there is one, otherwise the latest event.
func (l *Ledger) InteractionFor(ctx context.Context, userID string, resourceID core.ResourceID) (core.Action, bool, error) {
	opinion, err := l.interactions.GetOpinion(ctx, userID, resourceID)
	if err == nil {
		return opinion.Action, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", false, err
	}

	events, err := l.interactions.ListEvents(ctx, userID)
	if err != nil {
		return "", false, err
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].ResourceID == resourceID {
			return events[i].Action, true, nil
		}
	}
	return "", false, nil
}

// Stats counts the user's active opinions and recorded events.
func (l *Ledger) Stats(ctx context.Context, userID string) (*core.InteractionStats, error) {
	opinions, err := l.interactions.ListOpinions(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := l.interactions.ListEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &core.InteractionStats{}
	for _, in := range slices.Concat(opinions, events) {
		switch in.Action {
		case core.ActionClick:
			stats.Clicks++
		case core.ActionLike:
			stats.Likes++
		case core.ActionDislike:
			stats.Dislikes++
		case core.ActionIgnore:
			stats.Ignores++
		}
	}
	return stats, nil
}

// Wait blocks until every submitted feedback write has finished.
func (l *Ledger) Wait() {
	l.pending.Wait()
}

// Close waits for pending feedback writes and releases the worker pool.
// The ledger should not be used after calling Close.
func (l *Ledger) Close() {
	l.pending.Wait()
	l.pool.Release()
}
