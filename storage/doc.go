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

// Package storage provides the storage abstraction layer for curator.
//
// This package defines repository interfaces that decouple the ledger, quota
// and feedback logic from the storage implementation.
//
// # Architecture
//
//   - InteractionRepository: per-user opinions (toggle semantics) and events
//   - TagCache: resource tags remembered for liked-tag derivation
//   - UsageRepository: per-user monthly feature counters
//   - FeedbackRepository: durable like/dislike records with filtered reads
//
// Values are encoded with mus-go (see serialization.go).
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe. Read-modify-write
// operations are serialized per key so concurrent requests from the same
// user cannot lose updates.
package storage
