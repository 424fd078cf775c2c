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

package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
)

// Semantic adjustment weights.
const (
	semanticCategoryBonus = 0.05
	semanticLikedTagBonus = 0.2
	semanticClickWeight   = 0.01
	semanticLikeWeight    = 0.015
)

// Path names the scorer that produced a ranking.
type Path string

const (
	PathSemantic  Path = "semantic"
	PathHeuristic Path = "heuristic"
)

// SemanticScorer ranks vectorized items by similarity to the embedded query.
type SemanticScorer struct {
	embedder ai.Embedder
}

// NewSemanticScorer creates a scorer over the given embedder.
func NewSemanticScorer(embedder ai.Embedder) *SemanticScorer {
	return &SemanticScorer{embedder: embedder}
}

// semanticQuery is the text embedded for a query: the title followed by the
// task type's tags.
func semanticQuery(query *core.Query) string {
	return strings.TrimSpace(query.Title + " " + strings.Join(categoryTags[query.TaskType], " "))
}

// Rank returns the best k items. Only items with a vector are scored; when
// none has one the heuristic scorer ranks everything instead and the
// returned path says so. Gateway failures and dimension mismatches are
// returned to the caller.
func (s *SemanticScorer) Rank(ctx context.Context, query *core.Query, items []*core.CatalogItem, k int) ([]ScoredItem, Path, error) {
	vectorized := make([]*core.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.HasEmbedding() {
			vectorized = append(vectorized, item)
		}
	}
	if len(vectorized) == 0 {
		return RankHeuristic(query, items, k), PathHeuristic, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, semanticQuery(query))
	if err != nil {
		return nil, PathSemantic, err
	}

	tags := categoryTags[query.TaskType]
	scored := make([]ScoredItem, 0, len(vectorized))
	for _, item := range vectorized {
		similarity, err := core.CosineSimilarity(queryVector, item.Embedding)
		if err != nil {
			return nil, PathSemantic, fmt.Errorf("item %d: %w", item.ID, err)
		}
		if countOverlaps(item.Tags, tags) > 0 {
			similarity += semanticCategoryBonus
		}
		similarity += semanticLikedTagBonus * float64(countOverlaps(item.Tags, query.LikedTags))
		similarity += math.Log10(float64(item.Clicks)+1) * semanticClickWeight
		similarity += math.Log10(float64(item.Likes)+1) * semanticLikeWeight
		scored = append(scored, ScoredItem{Item: item, Score: similarity})
	}
	return topK(scored, k), PathSemantic, nil
}
