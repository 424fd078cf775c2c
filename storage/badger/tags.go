package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// TagRepository implements storage.TagCache for BadgerDB.
// Tags are keyed by resource only; every user sees the same catalog.
type TagRepository struct {
	backend *Backend
}

var _ storage.TagCache = (*TagRepository)(nil)

// NewTagRepository creates a new TagRepository.
func NewTagRepository(backend *Backend) *TagRepository {
	return &TagRepository{backend: backend}
}

// CacheTags stores tags for a resource, replacing any previous set.
// Rewriting an identical set is skipped.
func (r *TagRepository) CacheTags(ctx context.Context, resourceID core.ResourceID, tags []string) error {
	if resourceID <= 0 {
		return core.ErrInvalidResourceID
	}
	key := makeTagKey(resourceID)
	return r.backend.UpdateWithRetry(ctx, func(tx *badger.Txn) error {
		current, found, err := readValue(tx, key, storage.UnmarshalTags)
		if err != nil {
			return err
		}
		if found && slices.Equal(current, tags) {
			return nil
		}
		return tx.Set(key, storage.MarshalTags(tags))
	})
}

// GetTags returns cached tags for the given resources.
func (r *TagRepository) GetTags(ctx context.Context, resourceIDs ...core.ResourceID) (map[core.ResourceID][]string, error) {
	result := make(map[core.ResourceID][]string, len(resourceIDs))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range resourceIDs {
			tags, found, err := readValue(tx, makeTagKey(id), storage.UnmarshalTags)
			if err != nil {
				return err
			}
			if found {
				result[id] = tags
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}
