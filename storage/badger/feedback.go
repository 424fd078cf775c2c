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

package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// FeedbackRepository implements storage.FeedbackRepository for BadgerDB.
type FeedbackRepository struct {
	backend *Backend
}

var _ storage.FeedbackRepository = (*FeedbackRepository)(nil)

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(backend *Backend) *FeedbackRepository {
	return &FeedbackRepository{backend: backend}
}

// SyncFeedback upserts or deletes the record for (user, resource) so it
// matches opinion.
func (r *FeedbackRepository) SyncFeedback(ctx context.Context, userID string, resourceID core.ResourceID, opinion *core.Interaction) (storage.Change, error) {
	if opinion != nil {
		if err := core.ValidateFeedback(userID, resourceID, opinion.Action); err != nil {
			return storage.ChangeNone, err
		}
	}
	key, err := makeFeedbackKey(userID, resourceID)
	if err != nil {
		return storage.ChangeNone, err
	}

	// Allocated outside the retried closure so a replay keeps the same id.
	id := uuid.NewString()

	var change storage.Change
	err = r.backend.UpdateWithRetry(ctx, func(tx *badger.Txn) error {
		current, found, err := readValue(tx, key, storage.UnmarshalFeedbackRecord)
		if err != nil {
			return err
		}

		if opinion == nil {
			if !found {
				change = storage.ChangeNone
				return nil
			}
			change = storage.ChangeRemoved
			return tx.Delete(key)
		}

		at := opinion.Timestamp.UTC()
		switch {
		case !found:
			change = storage.ChangeCreated
		case current.Action == opinion.Action && current.Timestamp.Equal(at):
			change = storage.ChangeNone
			return nil
		default:
			change = storage.ChangeReplaced
		}
		return tx.Set(key, storage.MarshalFeedbackRecord(&core.FeedbackRecord{
			ID:         id,
			ResourceID: resourceID,
			Action:     opinion.Action,
			UserID:     userID,
			Timestamp:  at,
		}))
	})
	if err != nil {
		return storage.ChangeNone, err
	}
	return change, nil
}

// ListFeedback returns matching records ordered by timestamp.
// A user filter narrows the scan to that user's keys.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, filter storage.FeedbackFilter) ([]*core.FeedbackRecord, error) {
	prefix := []byte(feedbackPrefix)
	if filter.UserID != "" {
		var err error
		prefix, err = userSegment(feedbackPrefix, filter.UserID)
		if err != nil {
			return nil, err
		}
	}

	var records []*core.FeedbackRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		records, err = scanPrefix(tx, prefix, storage.UnmarshalFeedbackRecord)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	if filter.ResourceID != 0 {
		records = slices.DeleteFunc(records, func(rec *core.FeedbackRecord) bool {
			return rec.ResourceID != filter.ResourceID
		})
	}
	slices.SortStableFunc(records, func(a, b *core.FeedbackRecord) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return records, nil
}
