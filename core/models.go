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
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ResourceID identifies a catalog item. Valid ids are positive.
type ResourceID int64

// Category is the kind of a catalog item.
type Category string

const (
	CategoryArticle  Category = "article"
	CategoryTemplate Category = "template"
	CategoryTool     Category = "tool"
	CategoryCourse   Category = "course"
	CategoryInvestor Category = "investor"
)

// Stage is the company lifecycle stage a catalog item targets.
type Stage string

const (
	StageIdea   Stage = "idea"
	StageMVP    Stage = "mvp"
	StageGrowth Stage = "growth"
)

// TaskType is the category of a user task. It biases resource scoring
// and drives the priority baseline.
type TaskType string

const (
	TaskTypeProduct TaskType = "product"
	TaskTypeMarket  TaskType = "market"
	TaskTypeFinance TaskType = "finance"
	TaskTypeTeam    TaskType = "team"
	TaskTypeOther   TaskType = "other"
)

// TaskTypes lists every valid task type.
var TaskTypes = []TaskType{TaskTypeProduct, TaskTypeMarket, TaskTypeFinance, TaskTypeTeam, TaskTypeOther}

// Action is something a user did to a resource.
type Action string

const (
	ActionClick   Action = "click"
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
	ActionIgnore  Action = "ignore"
)

// IsOpinion reports whether the action is a like or dislike. Opinions
// follow toggle semantics; everything else is an append-only event.
func (a Action) IsOpinion() bool {
	return a == ActionLike || a == ActionDislike
}

// Feature is a quota-limited capability.
type Feature string

const (
	FeatureDecompose    Feature = "decompose"
	FeatureRecommend    Feature = "recommend"
	FeatureWeeklyReport Feature = "weeklyReport"
)

// Features lists every quota-limited feature.
var Features = []Feature{FeatureDecompose, FeatureRecommend, FeatureWeeklyReport}

// CatalogItem is a single recommendable resource. Items are immutable once loaded.
type CatalogItem struct {
	ID          ResourceID `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Category    Category   `json:"type"`
	Tags        []string   `json:"tags"`
	Stage       Stage      `json:"stage"`
	Clicks      int        `json:"clicks"`
	Likes       int        `json:"likes"`
	Embedding   []float32  `json:"embedding,omitempty"` // absent means no vector
}

// HasEmbedding reports whether the item carries a vector.
func (c *CatalogItem) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Query describes what a user is working on.
type Query struct {
	Title       string
	Description string
	TaskType    TaskType
	LikedTags   []string
	ExcludeIDs  []ResourceID
	Limit       int // 0 means DefaultRankLimit
}

// DefaultRankLimit is the number of resources returned by a ranking.
const DefaultRankLimit = 5

// Interaction is one entry in a user's ledger.
type Interaction struct {
	ResourceID ResourceID
	Action     Action
	Timestamp  time.Time
}

// InteractionStats summarizes a user's ledger.
type InteractionStats struct {
	Clicks   int `json:"clicks"`
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Ignores  int `json:"ignores"`
}

// UsageRecord holds a user's feature counters for one calendar month.
type UsageRecord struct {
	Month  string // YYYY-MM
	Counts map[Feature]int
}

// FeatureUsage is the quota status of a single feature.
type FeatureUsage struct {
	Feature   Feature `json:"feature"`
	Used      int     `json:"used"`
	Limit     int     `json:"limit"`
	Remaining int     `json:"remaining"`
}

// MonthKey returns the YYYY-MM month a time falls in, in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// FeedbackRecord is a persisted like or dislike.
type FeedbackRecord struct {
	ID         string     `json:"id"`
	ResourceID ResourceID `json:"resourceId"`
	Action     Action     `json:"action"`
	UserID     string     `json:"userId"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Task is a user task submitted for prioritization.
type Task struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Type    TaskType   `json:"type"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// UnmarshalJSON accepts due dates as plain dates (2006-01-02) or RFC 3339 timestamps.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Type    TaskType `json:"type"`
		DueDate string   `json:"dueDate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Title = raw.Title
	t.Type = raw.Type
	t.DueDate = nil
	if raw.DueDate != "" {
		due, err := ParseDueDate(raw.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = &due
	}
	return nil
}

// ParseDueDate parses a plain date or an RFC 3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	if due, err := time.Parse(time.DateOnly, s); err == nil {
		return due, nil
	}
	due, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	return due, nil
}
