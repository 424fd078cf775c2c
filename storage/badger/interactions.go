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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// InteractionRepository implements storage.InteractionRepository for BadgerDB.
type InteractionRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.InteractionRepository = (*InteractionRepository)(nil)

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(backend *Backend) (*InteractionRepository, error) {
	seq, err := backend.GetSequence(eventIDSeq)
	if err != nil {
		return nil, err
	}
	return &InteractionRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the event sequence.
func (r *InteractionRepository) Close() error {
	return r.seq.Release()
}

// ToggleOpinion applies the toggle rule for a like or dislike.
func (r *InteractionRepository) ToggleOpinion(ctx context.Context, userID string, resourceID core.ResourceID, action core.Action, at time.Time) (*core.Interaction, storage.Change, error) {
	if err := core.ValidateFeedback(userID, resourceID, action); err != nil {
		return nil, 0, err
	}
	key, err := makeOpinionKey(userID, resourceID)
	if err != nil {
		return nil, 0, err
	}

	var (
		stored *core.Interaction
		change storage.Change
	)
	err = r.backend.UpdateWithRetry(ctx, func(tx *badger.Txn) error {
		current, found, err := readValue(tx, key, storage.UnmarshalInteraction)
		if err != nil {
			return err
		}

		if found && current.Action == action {
			stored, change = nil, storage.ChangeRemoved
			return tx.Delete(key)
		}

		change = storage.ChangeCreated
		if found {
			change = storage.ChangeReplaced
		}
		stored = &core.Interaction{ResourceID: resourceID, Action: action, Timestamp: at.UTC()}
		return tx.Set(key, storage.MarshalInteraction(stored))
	})
	if err != nil {
		return nil, 0, err
	}
	return stored, change, nil
}

// AppendEvent records a click or ignore.
func (r *InteractionRepository) AppendEvent(ctx context.Context, userID string, event *core.Interaction) error {
	if err := core.ValidateInteraction(userID, event.ResourceID, event.Action); err != nil {
		return err
	}
	seq, err := r.seq.Next()
	if err != nil {
		return err
	}
	key, err := makeEventKey(userID, event.Timestamp, seq)
	if err != nil {
		return err
	}
	value := storage.MarshalInteraction(event)
	return r.backend.UpdateWithRetry(ctx, func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// GetOpinion returns the active opinion for a resource.
func (r *InteractionRepository) GetOpinion(ctx context.Context, userID string, resourceID core.ResourceID) (*core.Interaction, error) {
	key, err := makeOpinionKey(userID, resourceID)
	if err != nil {
		return nil, err
	}
	var result *core.Interaction
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		var found bool
		var err error
		result, found, err = readValue(tx, key, storage.UnmarshalInteraction)
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

// ListOpinions returns every active opinion of the user ordered by resource id.
func (r *InteractionRepository) ListOpinions(ctx context.Context, userID string) ([]*core.Interaction, error) {
	prefix, err := userSegment(opinionPrefix, userID)
	if err != nil {
		return nil, err
	}
	return r.list(prefix)
}

// ListEvents returns the user's clicks and ignores, oldest first.
func (r *InteractionRepository) ListEvents(ctx context.Context, userID string) ([]*core.Interaction, error) {
	prefix, err := userSegment(eventPrefix, userID)
	if err != nil {
		return nil, err
	}
	return r.list(prefix)
}

func (r *InteractionRepository) list(prefix []byte) ([]*core.Interaction, error) {
	var results []*core.Interaction
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = scanPrefix(tx, prefix, storage.UnmarshalInteraction)
		return err
	}, false)
	return results, err
}
