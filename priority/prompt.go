package priority

import (
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/curator/core"
)

const systemPrompt = `你是一位创业顾问和任务管理专家。你的职责是根据创业早期阶段的特点，对任务进行智能优先级排序。

排序原则（创业早期阶段）：
1. **融资优先**：涉及融资、投资人沟通的任务优先级最高，因为资金是创业公司的生命线
2. **产品核心**：产品开发相关任务次之，MVP 和核心功能决定产品竞争力
3. **市场导向**：市场调研帮助验证方向，在产品开发前尤为重要
4. **团队支撑**：团队管理任务支撑业务发展，但可适当延后
5. **截止日期**：相同类型任务，截止日期越近优先级越高
6. **紧急重要**：综合考虑任务的紧急性和重要性

排序逻辑：
- 首先按任务类型权重排序（融资 > 产品 > 市场 > 团队 > 其他）
- 同类型任务按截止日期排序（越近越优先）
- 考虑任务之间的依赖关系
- 考虑创业早期资源有限的特点

返回格式：
{
  "prioritizedIds": ["task_id_1", "task_id_2", ...],
  "reasoning": "简短的排序理由说明"
}

注意：只返回 JSON 对象，不要包含其他文字。`

func buildPrompt(tasks []core.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "请对以下 %d 个创业任务进行优先级排序（从高到低）：\n\n", len(tasks))
	for i, task := range tasks {
		c := categoryOf(task.Type)
		due := "未设置"
		if task.DueDate != nil {
			due = task.DueDate.Format(time.DateOnly)
		}
		fmt.Fprintf(&b, "%d. ID: %s\n   标题: %s\n   类型: %s (权重: %d)\n   截止日期: %s\n",
			i+1, task.ID, task.Title, c.description, c.weight, due)
	}
	b.WriteString(`
请根据创业早期阶段的特点，综合考虑任务类型、截止日期、紧急性和重要性，返回排序后的任务 ID 数组。

返回 JSON 格式：
{
  "prioritizedIds": ["id1", "id2", ...],
  "reasoning": "排序理由"
}`)
	return b.String()
}
