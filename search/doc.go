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

// Package search ranks catalog resources for a user's task.
//
// The Ranker combines two scorers:
//   - Semantic: cosine similarity between an embedded query and the
//     precomputed item vectors, nudged by tag overlap and popularity
//   - Heuristic: keyword and tag matching against per-category tables
//     plus popularity, needing no remote call
//
// The semantic scorer is tried first. Any failure, and any catalog without
// vectors, routes the request to the heuristic scorer, so a ranking only
// fails when the catalog itself is unavailable.
package search
