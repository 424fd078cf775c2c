package curator

import (
	"context"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/ledger"
	"github.com/poiesic/curator/priority"
	"github.com/poiesic/curator/search"
	"github.com/poiesic/curator/storage"
)

// Recommendation is the outcome of Recommend.
type Recommendation struct {
	Items []search.ScoredItem `json:"resources"`
	Path  search.Path         `json:"path,omitempty"`
	// Exhausted means every candidate was excluded.
	Exhausted bool `json:"exhausted"`
	// QuotaExceeded means the monthly allowance was used up; nothing was ranked.
	QuotaExceeded bool `json:"quotaExceeded"`
	Remaining     int  `json:"remaining"`
}

// Recommend ranks catalog resources for the user's task. One unit of the
// recommend quota is consumed before ranking and is kept even when the
// semantic scorer fails. When the query carries no liked tags, the user's
// ledger supplies them.
func (e *Engine) Recommend(ctx context.Context, userID string, query *core.Query) (*Recommendation, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	granted, err := e.gate.TryConsume(ctx, userID, core.FeatureRecommend)
	if err != nil {
		return nil, err
	}
	if !granted {
		return &Recommendation{Items: []search.ScoredItem{}, QuotaExceeded: true}, nil
	}

	q := *query
	if len(q.LikedTags) == 0 {
		tags, err := e.ledger.LikedTags(ctx, userID)
		if err != nil {
			e.logger.Warn("liked tags unavailable, ranking without personalization", "user", userID, "err", err)
		}
		q.LikedTags = tags
	}

	result, err := e.ranker.Rank(ctx, &q)
	if err != nil {
		return nil, err
	}

	items := make([]*core.CatalogItem, len(result.Items))
	for i, scored := range result.Items {
		items[i] = scored.Item
	}
	if err := e.ledger.CacheTags(ctx, items); err != nil {
		e.logger.Warn("failed to cache resource tags", "user", userID, "err", err)
	}

	remaining, err := e.gate.Remaining(ctx, userID, core.FeatureRecommend)
	if err != nil {
		return nil, err
	}

	return &Recommendation{
		Items:     result.Items,
		Path:      result.Path,
		Exhausted: result.Exhausted,
		Remaining: remaining,
	}, nil
}

// Prioritize orders the user's tasks. It never fails because of the remote
// generator.
func (e *Engine) Prioritize(ctx context.Context, tasks []core.Task) (*priority.Result, error) {
	return e.prioritizer.Prioritize(ctx, tasks)
}

// Decomposition is the outcome of Decompose.
type Decomposition struct {
	Subtasks      []string `json:"subtasks"`
	QuotaExceeded bool     `json:"quotaExceeded"`
	Remaining     int      `json:"remaining"`
}

// Decompose splits a task into subtasks with the remote generator. One unit
// of the decompose quota is consumed first and is not refunded on failure.
func (e *Engine) Decompose(ctx context.Context, userID, title, description string) (*Decomposition, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}
	if e.decomposer == nil {
		return nil, ErrRemoteUnavailable
	}

	granted, err := e.gate.TryConsume(ctx, userID, core.FeatureDecompose)
	if err != nil {
		return nil, err
	}
	if !granted {
		return &Decomposition{Subtasks: []string{}, QuotaExceeded: true}, nil
	}

	subtasks, err := e.decomposer.Decompose(ctx, title, description)
	if err != nil {
		return nil, err
	}

	remaining, err := e.gate.Remaining(ctx, userID, core.FeatureDecompose)
	if err != nil {
		return nil, err
	}
	return &Decomposition{Subtasks: subtasks, Remaining: remaining}, nil
}

// RecordInteraction applies a click, ignore, like or dislike to the user's ledger.
func (e *Engine) RecordInteraction(ctx context.Context, userID string, resourceID core.ResourceID, action core.Action, tags []string) (*ledger.Outcome, error) {
	return e.ledger.Record(ctx, userID, resourceID, action, tags)
}

// LikedTags returns the user's personalization tags.
func (e *Engine) LikedTags(ctx context.Context, userID string) ([]string, error) {
	return e.ledger.LikedTags(ctx, userID)
}

// InteractionFor returns the user's current interaction with a resource.
func (e *Engine) InteractionFor(ctx context.Context, userID string, resourceID core.ResourceID) (core.Action, bool, error) {
	return e.ledger.InteractionFor(ctx, userID, resourceID)
}

// Stats summarizes the user's ledger.
func (e *Engine) Stats(ctx context.Context, userID string) (*core.InteractionStats, error) {
	return e.ledger.Stats(ctx, userID)
}

// Usage reports the user's quota status for the current month.
func (e *Engine) Usage(ctx context.Context, userID string) ([]core.FeatureUsage, error) {
	return e.gate.Status(ctx, userID)
}

// ConsumeQuota takes one use of a feature served outside the engine, such as
// weekly reports. A denial is false with a nil error.
func (e *Engine) ConsumeQuota(ctx context.Context, userID string, feature core.Feature) (bool, error) {
	return e.gate.TryConsume(ctx, userID, feature)
}

// Feedback lists persisted likes and dislikes. Writes triggered by
// RecordInteraction are asynchronous and may not be visible yet.
func (e *Engine) Feedback(ctx context.Context, filter storage.FeedbackFilter) ([]*core.FeedbackRecord, error) {
	return e.repos.Feedback.ListFeedback(ctx, filter)
}

// Flush blocks until pending feedback writes are stored.
func (e *Engine) Flush() {
	e.ledger.Wait()
}
