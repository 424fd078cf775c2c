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

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTitleTooShort indicates a query title shorter than two characters.
	ErrTitleTooShort = errors.New("title must be at least 2 characters")

	// ErrInvalidTaskType indicates a value outside the closed task type set.
	ErrInvalidTaskType = errors.New("invalid task type")

	// ErrInvalidTask indicates a Task failed validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrEmptyTaskID indicates a task without an id.
	ErrEmptyTaskID = errors.New("task id cannot be empty")

	// ErrEmptyTaskTitle indicates a task without a title.
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")

	// ErrDuplicateTaskID indicates two tasks sharing an id.
	ErrDuplicateTaskID = errors.New("duplicate task id")

	// ErrInvalidDueDate indicates a due date in an unsupported format.
	ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD or RFC 3339")

	// ErrInvalidInteraction indicates an Interaction failed validation.
	ErrInvalidInteraction = errors.New("invalid interaction")

	// ErrInvalidFeedback indicates feedback failed validation.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrInvalidAction indicates a value outside the closed action set.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidResourceID indicates a non-positive resource id.
	ErrInvalidResourceID = errors.New("resource id must be positive")

	// ErrEmptyUserID indicates a missing user id.
	ErrEmptyUserID = errors.New("user id cannot be empty")

	// ErrInvalidFeature indicates a value outside the closed feature set.
	ErrInvalidFeature = errors.New("invalid feature")
)

// ErrDimensionMismatch is returned when comparing vectors of different lengths.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")
