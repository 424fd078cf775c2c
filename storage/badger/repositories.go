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

import "errors"

// Repositories bundles every repository over one backend.
type Repositories struct {
	Backend      *Backend
	Interactions *InteractionRepository
	Tags         *TagRepository
	Usage        *UsageRepository
	Feedback     *FeedbackRepository
}

// OpenRepositories opens a backend and creates every repository on it.
// Pass inMemory for throwaway stores.
func OpenRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	interactions, err := NewInteractionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:      backend,
		Interactions: interactions,
		Tags:         NewTagRepository(backend),
		Usage:        NewUsageRepository(backend),
		Feedback:     NewFeedbackRepository(backend),
	}, nil
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must Close the result when done.
func NewMemoryRepositories() (*Repositories, error) {
	return OpenRepositories("", true)
}

// Close releases the repositories and then the backend.
func (r *Repositories) Close() error {
	return errors.Join(r.Interactions.Close(), r.Backend.Close())
}
