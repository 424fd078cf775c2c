package search

import (
	"math"
	"slices"
	"strings"

	"github.com/poiesic/curator/core"
)

// Heuristic score weights.
const (
	keywordWeight         = 2.0
	categoryKeywordWeight = 1.0
	categoryTagWeight     = 1.5
	likedTagWeight        = 2.0
	templateBonus         = 0.5
	clickWeight           = 0.1
	likeWeight            = 0.15
)

// ScoredItem is a ranked catalog item.
type ScoredItem struct {
	Item  *core.CatalogItem `json:"item"`
	Score float64           `json:"score"`
}

// HeuristicScore scores one item for a query without any remote call.
func HeuristicScore(query *core.Query, item *core.CatalogItem) float64 {
	text := resourceText(item)
	score := 0.0

	for _, kw := range queryKeywords(query.Title + " " + query.Description) {
		if strings.Contains(text, kw) {
			score += keywordWeight
		}
	}
	for _, kw := range categoryKeywords[query.TaskType] {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += categoryKeywordWeight
		}
	}

	score += categoryTagWeight * float64(countOverlaps(item.Tags, categoryTags[query.TaskType]))
	score += likedTagWeight * float64(countOverlaps(item.Tags, query.LikedTags))

	if item.Category == core.CategoryTemplate {
		score += templateBonus
	}
	score += math.Log10(float64(item.Clicks)+1) * clickWeight
	score += math.Log10(float64(item.Likes)+1) * likeWeight
	return score
}

// RankHeuristic scores every item and returns the best k, highest first.
// Ties keep catalog order.
func RankHeuristic(query *core.Query, items []*core.CatalogItem, k int) []ScoredItem {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoredItem{Item: item, Score: HeuristicScore(query, item)})
	}
	return topK(scored, k)
}

// topK stable-sorts by descending score and truncates to k.
func topK(scored []ScoredItem, k int) []ScoredItem {
	slices.SortStableFunc(scored, func(a, b ScoredItem) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
