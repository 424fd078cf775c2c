package search

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/curator/core"
)

// categoryKeywords are matched against resource text for each task type.
var categoryKeywords = map[core.TaskType][]string{
	core.TaskTypeProduct: {"产品", "设计", "开发", "用户体验", "UI", "UX", "需求", "原型", "功能"},
	core.TaskTypeMarket:  {"市场", "调研", "竞品", "用户", "分析", "问卷", "营销", "推广"},
	core.TaskTypeFinance: {"融资", "投资", "商业计划", "财务", "估值", "股权", "BP", "路演"},
	core.TaskTypeTeam:    {"团队", "管理", "协作", "招聘", "OKR", "沟通", "领导力", "培训"},
	core.TaskTypeOther:   {"创业", "管理", "工具", "效率", "学习", "方法", "模板"},
}

// categoryTags are compared with resource tags for each task type.
var categoryTags = map[core.TaskType][]string{
	core.TaskTypeProduct: {"产品", "设计", "UI/UX", "技术", "架构"},
	core.TaskTypeMarket:  {"市场研究", "用户调研", "竞品分析", "运营", "数据"},
	core.TaskTypeFinance: {"融资", "投资人", "股权", "财务", "商业计划"},
	core.TaskTypeTeam:    {"团队管理", "招聘", "HR", "OKR", "团队协作"},
	core.TaskTypeOther:   {"工具", "方法论", "课程", "模板"},
}

// CategoryTags returns the tags associated with a task type.
func CategoryTags(t core.TaskType) []string {
	return categoryTags[t]
}

// queryKeywords splits text on whitespace into lowercased tokens longer than
// one character. Tokens keep any punctuation attached to them.
func queryKeywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) > 1 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// resourceText is the lowercased searchable text of an item.
func resourceText(item *core.CatalogItem) string {
	return strings.ToLower(item.Title + " " + item.Description + " " + strings.Join(item.Tags, " "))
}

// tagsOverlap reports whether either tag contains the other. The match is
// case-sensitive and empty tags never match.
func tagsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// anyTagOverlaps reports whether tag overlaps any of the item tags.
func anyTagOverlaps(itemTags []string, tag string) bool {
	for _, t := range itemTags {
		if tagsOverlap(t, tag) {
			return true
		}
	}
	return false
}

// countOverlaps counts how many of tags overlap at least one item tag.
func countOverlaps(itemTags, tags []string) int {
	n := 0
	for _, tag := range tags {
		if anyTagOverlaps(itemTags, tag) {
			n++
		}
	}
	return n
}
