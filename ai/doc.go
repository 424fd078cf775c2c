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

// Package ai provides abstractions for the remote model services used by curator.
//
// The package defines two service interfaces and the pieces shared by every
// implementation of them:
//
//   - Embedder: turns text into vectors for semantic scoring
//   - TextGenerator: produces free text for prioritization and decomposition
//   - Provider: aggregates both for convenient initialization
//
// # Errors
//
// Remote failures are reported with typed errors so callers can decide
// whether a deterministic fallback applies:
//
//   - *ConfigError: missing or malformed credential or settings, never retried
//   - *RemoteError: non-success status, error payload or empty result
//   - *ParseError: a reply without the expected JSON, with the raw text attached
//
// # Credentials
//
// Requests are authorized with a short-lived HS256 token minted from a two-part
// "id.secret" key. SignToken is pure, so tokens can be checked in tests with a
// fixed clock.
//
// # Parsing model output
//
// ExtractJSONArray and ExtractJSONObject pull the first well-formed JSON value
// out of a reply that may wrap it in prose or code fences.
//
// # Implementation Packages
//
//   - ai/bigmodel: production implementation against the BigModel OpenAI-compatible API
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("AI_API_KEY")))
//	provider, err := bigmodel.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "融资路演准备")
package ai
