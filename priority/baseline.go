package priority

import (
	"slices"

	"github.com/poiesic/curator/core"
)

// category describes how a task type is weighted.
type category struct {
	weight      int
	description string
}

var categories = map[core.TaskType]category{
	core.TaskTypeFinance: {10, "融资准备 - 创业早期最关键，决定公司生存"},
	core.TaskTypeProduct: {9, "产品开发 - 核心业务，需要持续迭代"},
	core.TaskTypeMarket:  {8, "市场调研 - 指导产品和融资方向"},
	core.TaskTypeTeam:    {7, "团队管理 - 支撑业务发展"},
	core.TaskTypeOther:   {5, "其他任务 - 辅助性工作"},
}

func categoryOf(t core.TaskType) category {
	if c, ok := categories[t]; ok {
		return c
	}
	return categories[core.TaskTypeOther]
}

// Weight returns the priority weight of a task type. Unknown types weigh
// the same as "other".
func Weight(t core.TaskType) int {
	return categoryOf(t).weight
}

// Baseline orders tasks by descending weight, then by due date with dated
// tasks first and earlier dates first. Equal tasks keep their input order.
func Baseline(tasks []core.Task) []string {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b core.Task) int {
		if wa, wb := Weight(a.Type), Weight(b.Type); wa != wb {
			return wb - wa
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			return a.DueDate.Compare(*b.DueDate)
		case a.DueDate != nil:
			return -1
		case b.DueDate != nil:
			return 1
		}
		return 0
	})

	ids := make([]string, len(sorted))
	for i, task := range sorted {
		ids[i] = task.ID
	}
	return ids
}
