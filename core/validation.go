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

package core

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Title must have at least 2 characters after trimming
//   - TaskType must be one of the closed set
//
// NOT validated:
//   - LikedTags and ExcludeIDs (any content is acceptable)
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if utf8.RuneCountInString(strings.TrimSpace(query.Title)) < 2 {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrTitleTooShort)
	}

	if err := ValidateTaskType(query.TaskType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	if query.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidQuery)
	}

	return nil
}

// ValidateTaskType checks that t is one of the known task types.
func ValidateTaskType(t TaskType) error {
	if !slices.Contains(TaskTypes, t) {
		return fmt.Errorf("%w: %q", ErrInvalidTaskType, t)
	}
	return nil
}

// ValidateTasks validates a task list for prioritization.
//
// Validation rules:
//   - every task has a non-empty id and title
//   - ids are unique
//
// Unknown task types are accepted and weighted like "other".
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if task.ID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTaskID)
		}
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTaskTitle)
		}
		if _, dup := seen[task.ID]; dup {
			return fmt.Errorf("%w: %w: %s", ErrInvalidTask, ErrDuplicateTaskID, task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}

// ValidateInteraction validates a ledger entry before it is applied.
func ValidateInteraction(userID string, resourceID ResourceID, action Action) error {
	if userID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInteraction, ErrEmptyUserID)
	}
	if resourceID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInteraction, ErrInvalidResourceID)
	}
	if err := ValidateAction(action); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInteraction, err)
	}
	return nil
}

// ValidateFeedback validates a feedback submission. Only opinions are accepted.
func ValidateFeedback(userID string, resourceID ResourceID, action Action) error {
	if userID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrEmptyUserID)
	}
	if resourceID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrInvalidResourceID)
	}
	if !action.IsOpinion() {
		return fmt.Errorf("%w: %w: must be like or dislike", ErrInvalidFeedback, ErrInvalidAction)
	}
	return nil
}

// ValidateAction checks that a is one of the known actions.
func ValidateAction(a Action) error {
	switch a {
	case ActionClick, ActionLike, ActionDislike, ActionIgnore:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidAction, a)
}

// ValidateFeature checks that f is one of the known features.
func ValidateFeature(f Feature) error {
	if !slices.Contains(Features, f) {
		return fmt.Errorf("%w: %q", ErrInvalidFeature, f)
	}
	return nil
}
