package decompose

import (
	"regexp"
	"strings"

	"github.com/poiesic/curator/ai"
)

var (
	bulletPrefix  = regexp.MustCompile(`^[-•*]\s*`)
	numberPrefix  = regexp.MustCompile(`^\d+[.、)]\s*`)
	wrappingQuote = regexp.MustCompile(`^["']|["']$`)
)

// ParseSubtasks extracts subtasks from a model reply. A JSON string array is
// preferred; otherwise list-like lines are salvaged with bullets, numbering
// trailing commas and quotes stripped. At most MaxSubtasks are returned.
func ParseSubtasks(reply string) []string {
	if items, ok := ai.ExtractJSONArray[any](reply); ok {
		var subtasks []string
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				subtasks = append(subtasks, strings.TrimSpace(s))
			}
		}
		if len(subtasks) > 0 {
			return capSubtasks(subtasks)
		}
	}

	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = bulletPrefix.ReplaceAllString(line, "")
		line = numberPrefix.ReplaceAllString(line, "")
		line = strings.TrimRight(line, ",，")
		line = strings.TrimSpace(wrappingQuote.ReplaceAllString(line, ""))
		if line == "" || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") || strings.HasPrefix(line, "```") {
			continue
		}
		lines = append(lines, line)
	}
	return capSubtasks(lines)
}

func capSubtasks(subtasks []string) []string {
	if len(subtasks) > MaxSubtasks {
		return subtasks[:MaxSubtasks]
	}
	return subtasks
}
