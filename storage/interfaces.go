package storage

import (
	"context"
	"time"

	"github.com/poiesic/curator/core"
)

// Change describes what a toggle did to the stored opinion.
type Change int

const (
	// ChangeNone means the stored state already matched.
	ChangeNone Change = iota
	// ChangeCreated means no opinion existed and one was stored.
	ChangeCreated
	// ChangeReplaced means the opposite opinion was overwritten.
	ChangeReplaced
	// ChangeRemoved means the same opinion was sent again and was undone.
	ChangeRemoved
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeCreated:
		return "created"
	case ChangeReplaced:
		return "replaced"
	case ChangeRemoved:
		return "removed"
	}
	return "unknown"
}

// InteractionRepository stores a user's ledger: at most one opinion (like or
// dislike) per resource plus an append-only log of clicks and ignores.
// Implementations must serialize read-modify-write per (user, resource).
type InteractionRepository interface {
	// ToggleOpinion applies the toggle rule for a like or dislike.
	// Returns the stored opinion (nil after an undo) and what changed.
	ToggleOpinion(ctx context.Context, userID string, resourceID core.ResourceID, action core.Action, at time.Time) (*core.Interaction, Change, error)

	// AppendEvent records a click or ignore.
	AppendEvent(ctx context.Context, userID string, event *core.Interaction) error

	// GetOpinion returns the active opinion for a resource, or ErrNotFound.
	GetOpinion(ctx context.Context, userID string, resourceID core.ResourceID) (*core.Interaction, error)

	// ListOpinions returns every active opinion of the user ordered by resource id.
	ListOpinions(ctx context.Context, userID string) ([]*core.Interaction, error)

	// ListEvents returns the user's clicks and ignores, oldest first.
	ListEvents(ctx context.Context, userID string) ([]*core.Interaction, error)
}

// TagCache remembers the tags of resources the user has seen, since tags
// cannot be derived from a resource id alone.
type TagCache interface {
	// CacheTags stores tags for a resource, replacing any previous set.
	CacheTags(ctx context.Context, resourceID core.ResourceID, tags []string) error

	// GetTags returns cached tags for the given resources.
	// Resources without cached tags are absent from the map.
	GetTags(ctx context.Context, resourceIDs ...core.ResourceID) (map[core.ResourceID][]string, error)
}

// UsageRepository stores per-user monthly feature counters.
type UsageRepository interface {
	// UpdateUsage loads the user's record (nil when none is stored), passes it
	// to fn and stores the record fn returns. The whole sequence is serialized
	// per user. fn may be re-run when a concurrent update conflicts, so it must
	// not have side effects. Returning a nil record leaves storage untouched.
	UpdateUsage(ctx context.Context, userID string, fn func(current *core.UsageRecord) (*core.UsageRecord, error)) error

	// GetUsage returns the stored record, or ErrNotFound.
	GetUsage(ctx context.Context, userID string) (*core.UsageRecord, error)
}

// FeedbackFilter selects feedback records. Empty fields match everything.
type FeedbackFilter struct {
	UserID     string
	ResourceID core.ResourceID
}

// FeedbackRepository is the durable feedback store written through by the ledger.
type FeedbackRepository interface {
	// SyncFeedback makes the record for (user, resource) match the ledger's
	// current opinion: nil deletes it, otherwise it is created or replaced.
	// Syncing the state already stored is a no-op that keeps the record id.
	SyncFeedback(ctx context.Context, userID string, resourceID core.ResourceID, opinion *core.Interaction) (Change, error)

	// ListFeedback returns matching records ordered by timestamp.
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]*core.FeedbackRecord, error)
}
