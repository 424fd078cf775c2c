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

package ai

import (
	"errors"
	"fmt"
)

// ErrProviderRequired is returned when a component needs an AI provider and got none.
var ErrProviderRequired = errors.New("AI provider required")

// ConfigError reports missing or malformed configuration. It is fatal and never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ai config: %s: %s", e.Field, e.Reason)
}

// RemoteError reports a failed call to a remote model service: a non-success
// status, an error payload or an empty result.
type RemoteError struct {
	Op      string // "embeddings" or "chat"
	Status  int    // HTTP status, 0 when the request never got a response
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote error (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: remote error: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ParseError reports model output that did not contain the expected structure.
// Raw holds the full response for diagnosis.
type ParseError struct {
	Expected string
	Raw      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s from model response", e.Expected)
}
