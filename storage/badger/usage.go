package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// UsageRepository implements storage.UsageRepository for BadgerDB.
type UsageRepository struct {
	backend *Backend
}

var _ storage.UsageRepository = (*UsageRepository)(nil)

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(backend *Backend) *UsageRepository {
	return &UsageRepository{backend: backend}
}

// UpdateUsage runs fn against the stored record inside a conflict-retried
// transaction.
func (r *UsageRepository) UpdateUsage(ctx context.Context, userID string, fn func(current *core.UsageRecord) (*core.UsageRecord, error)) error {
	key, err := makeUsageKey(userID)
	if err != nil {
		return err
	}
	return r.backend.UpdateWithRetry(ctx, func(tx *badger.Txn) error {
		current, _, err := readValue(tx, key, storage.UnmarshalUsageRecord)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil || next == nil {
			return err
		}
		return tx.Set(key, storage.MarshalUsageRecord(next))
	})
}

// GetUsage returns the stored record.
func (r *UsageRepository) GetUsage(ctx context.Context, userID string) (*core.UsageRecord, error) {
	key, err := makeUsageKey(userID)
	if err != nil {
		return nil, err
	}
	var result *core.UsageRecord
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		var found bool
		var err error
		result, found, err = readValue(tx, key, storage.UnmarshalUsageRecord)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}
