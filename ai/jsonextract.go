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
	"encoding/json"
	"strings"
)

// ExtractJSONArray finds the first well-formed JSON array in text that decodes
// into []T. Surrounding prose, code fences and trailing text are ignored.
func ExtractJSONArray[T any](text string) ([]T, bool) {
	var out []T
	if !extractFirst(text, '[', &out) {
		return nil, false
	}
	return out, true
}

// ExtractJSONObject finds the first well-formed JSON object in text that decodes into T.
func ExtractJSONObject[T any](text string) (T, bool) {
	var out T
	if !extractFirst(text, '{', &out) {
		var zero T
		return zero, false
	}
	return out, true
}

// extractFirst tries every occurrence of open as the start of a JSON value and
// decodes the first one that parses, repairing unquoted keys on a second pass.
func extractFirst(text string, open byte, dst any) bool {
	for start := strings.IndexByte(text, open); start >= 0; {
		if raw, ok := firstValue(text[start:]); ok {
			if json.Unmarshal(raw, dst) == nil {
				return true
			}
		}
		if raw, ok := firstValue(repairJSON(text[start:])); ok {
			if json.Unmarshal(raw, dst) == nil {
				return true
			}
		}

		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return false
}

// firstValue decodes one JSON value from the start of s, ignoring anything after it.
func firstValue(s string) (json.RawMessage, bool) {
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&raw); err != nil {
		return nil, false
	}
	return raw, true
}

// repairJSON attempts to fix common JSON formatting issues from LLM responses.
// It handles keys that lost their opening quote, e.g. `, type":` -> `, "type":`.
func repairJSON(s string) string {
	in := []rune(s)
	fixed := make([]rune, 0, len(in)+16)

	for i := 0; i < len(in); {
		ch := in[i]
		fixed = append(fixed, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			fixed = append(fixed, in[i])
			i++
		}
		if i >= len(in) || in[i] == '"' || !isLetter(in[i]) {
			continue
		}

		keyStart := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			fixed = append(fixed, '"')
		}
		fixed = append(fixed, in[keyStart:i]...)
	}

	return string(fixed)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
