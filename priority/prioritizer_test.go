package priority

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestBaseline(t *testing.T) {
	t.Run("finance before team", func(t *testing.T) {
		tasks := []core.Task{
			{ID: "1", Title: "组建团队", Type: core.TaskTypeTeam},
			{ID: "2", Title: "准备 BP", Type: core.TaskTypeFinance},
		}
		assert.Equal(t, []string{"2", "1"}, Baseline(tasks))
	})

	t.Run("full weight order", func(t *testing.T) {
		tasks := []core.Task{
			{ID: "other", Type: core.TaskTypeOther},
			{ID: "team", Type: core.TaskTypeTeam},
			{ID: "market", Type: core.TaskTypeMarket},
			{ID: "product", Type: core.TaskTypeProduct},
			{ID: "finance", Type: core.TaskTypeFinance},
		}
		assert.Equal(t, []string{"finance", "product", "market", "team", "other"}, Baseline(tasks))
	})

	t.Run("due dates within equal weight", func(t *testing.T) {
		tasks := []core.Task{
			{ID: "none", Type: core.TaskTypeProduct},
			{ID: "late", Type: core.TaskTypeProduct, DueDate: date("2025-06-01")},
			{ID: "early", Type: core.TaskTypeProduct, DueDate: date("2025-05-01")},
		}
		assert.Equal(t, []string{"early", "late", "none"}, Baseline(tasks))
	})

	t.Run("stable for equal tasks", func(t *testing.T) {
		tasks := []core.Task{
			{ID: "a", Type: core.TaskTypeMarket},
			{ID: "b", Type: core.TaskTypeMarket},
			{ID: "c", Type: core.TaskTypeMarket},
		}
		assert.Equal(t, []string{"a", "b", "c"}, Baseline(tasks))
	})

	t.Run("unknown type weighs like other", func(t *testing.T) {
		assert.Equal(t, Weight(core.TaskTypeOther), Weight("legal"))
		tasks := []core.Task{
			{ID: "x", Type: "legal"},
			{ID: "y", Type: core.TaskTypeTeam},
		}
		assert.Equal(t, []string{"y", "x"}, Baseline(tasks))
	})

	t.Run("input untouched", func(t *testing.T) {
		tasks := []core.Task{{ID: "1", Type: core.TaskTypeTeam}, {ID: "2", Type: core.TaskTypeFinance}}
		Baseline(tasks)
		assert.Equal(t, "1", tasks[0].ID)
	})
}

func TestIsPermutation(t *testing.T) {
	tasks := []core.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{"exact", []string{"c", "a", "b"}, true},
		{"missing id", []string{"a", "b"}, false},
		{"foreign id", []string{"a", "b", "z"}, false},
		{"duplicate", []string{"a", "a", "b"}, false},
		{"extra id", []string{"a", "b", "c", "d"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPermutation(tt.ids, tasks))
		})
	}
}

func twoTasks() []core.Task {
	return []core.Task{
		{ID: "1", Title: "招聘工程师", Type: core.TaskTypeTeam},
		{ID: "2", Title: "联系投资人", Type: core.TaskTypeFinance},
	}
}

func TestPrioritize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		generator := mock.NewMockGenerator("")
		p, err := NewPrioritizer(generator)
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, result.IDs)
		assert.Equal(t, 0, generator.CallCount())
	})

	t.Run("single task short-circuits", func(t *testing.T) {
		generator := mock.NewMockGenerator("")
		p, err := NewPrioritizer(generator)
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, twoTasks()[:1])
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, result.IDs)
		assert.Equal(t, ReasonSingleTask, result.Reasoning)
		assert.Equal(t, 0, generator.CallCount())
	})

	t.Run("valid override accepted", func(t *testing.T) {
		generator := mock.NewMockGenerator("好的，排序如下：\n```json\n{\"prioritizedIds\": [\"1\", \"2\"], \"reasoning\": \"先招人\"}\n```")
		p, err := NewPrioritizer(generator)
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, twoTasks())
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, result.IDs)
		assert.Equal(t, "先招人", result.Reasoning)
		assert.Equal(t, SourceOverride, result.Source)
		assert.Contains(t, generator.LastPrompt(), "ID: 2")
		assert.Contains(t, generator.LastPrompt(), "截止日期: 未设置")
	})

	t.Run("override without reasoning gets default", func(t *testing.T) {
		p, err := NewPrioritizer(mock.NewMockGenerator(`{"prioritizedIds": ["1", "2"]}`))
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, twoTasks())
		require.NoError(t, err)
		assert.Equal(t, ReasonOverrideDefault, result.Reasoning)
	})

	rejected := map[string]string{
		"missing id":  `{"prioritizedIds": ["1"], "reasoning": "x"}`,
		"foreign id":  `{"prioritizedIds": ["1", "9"], "reasoning": "x"}`,
		"duplicate":   `{"prioritizedIds": ["1", "1"], "reasoning": "x"}`,
		"no json":     `我觉得先融资`,
		"wrong shape": `{"prioritizedIds": [1, 2]}`,
	}
	for name, reply := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			p, err := NewPrioritizer(mock.NewMockGenerator(reply))
			require.NoError(t, err)

			result, err := p.Prioritize(ctx, twoTasks())
			require.NoError(t, err)
			assert.Equal(t, []string{"2", "1"}, result.IDs)
			assert.Equal(t, SourceBaseline, result.Source)
			assert.Equal(t, ReasonBaseline, result.Reasoning)
		})
	}

	t.Run("generator failure falls back", func(t *testing.T) {
		generator := &mock.MockGenerator{
			GenerateFunc: func(ctx context.Context, system, prompt string) (string, error) {
				return "", errors.New("timeout")
			},
		}
		p, err := NewPrioritizer(generator)
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, twoTasks())
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, result.IDs)
		assert.Equal(t, ReasonRemoteFailed, result.Reasoning)
	})

	t.Run("no generator", func(t *testing.T) {
		p, err := NewPrioritizer(nil)
		require.NoError(t, err)

		result, err := p.Prioritize(ctx, twoTasks())
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, result.IDs)
	})

	t.Run("invalid tasks", func(t *testing.T) {
		p, err := NewPrioritizer(nil)
		require.NoError(t, err)

		_, err = p.Prioritize(ctx, []core.Task{{ID: "1", Title: "a"}, {ID: "1", Title: "b"}})
		assert.ErrorIs(t, err, core.ErrDuplicateTaskID)
	})
}
