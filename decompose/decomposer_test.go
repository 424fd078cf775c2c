package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubtasks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "plain array",
			reply: `["整理财务数据", "撰写 BP", "预约投资人"]`,
			want:  []string{"整理财务数据", "撰写 BP", "预约投资人"},
		},
		{
			name:  "array inside prose",
			reply: "当然可以：\n[\"a\", \"\", 3, \"b\"]\n希望有帮助",
			want:  []string{"a", "b"},
		},
		{
			name:  "numbered lines",
			reply: "1. 调研竞品\n2、访谈用户\n3) 输出报告",
			want:  []string{"调研竞品", "访谈用户", "输出报告"},
		},
		{
			name:  "bullets and quotes",
			reply: "- \"确定岗位\"\n• 发布 JD\n* '筛选简历'",
			want:  []string{"确定岗位", "发布 JD", "筛选简历"},
		},
		{
			name:  "broken array salvaged",
			reply: "[\n\"第一步\",\n\"第二步\"",
			want:  []string{"第一步", "第二步"},
		},
		{
			name:  "capped",
			reply: `["1","2","3","4","5","6","7","8","9"]`,
			want:  []string{"1", "2", "3", "4", "5", "6", "7"},
		},
		{
			name:  "nothing usable",
			reply: "  \n[]\n",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSubtasks(tt.reply))
		})
	}
}

func TestDecompose(t *testing.T) {
	ctx := context.Background()

	t.Run("nil generator", func(t *testing.T) {
		_, err := NewDecomposer(nil)
		assert.Equal(t, ErrGeneratorRequired, err)
	})

	t.Run("returns subtasks", func(t *testing.T) {
		generator := mock.NewMockGenerator(`["a", "b", "c"]`)
		d, err := NewDecomposer(generator)
		require.NoError(t, err)

		subtasks, err := d.Decompose(ctx, "准备路演", "下周见投资人")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, subtasks)
		assert.Contains(t, generator.LastPrompt(), "任务：准备路演")
		assert.Contains(t, generator.LastPrompt(), "任务描述：下周见投资人")
	})

	t.Run("short title rejected before any call", func(t *testing.T) {
		generator := mock.NewMockGenerator(`["a"]`)
		d, err := NewDecomposer(generator)
		require.NoError(t, err)

		_, err = d.Decompose(ctx, " x ", "")
		assert.ErrorIs(t, err, core.ErrTitleTooShort)
		assert.Equal(t, 0, generator.CallCount())
	})

	t.Run("remote failure surfaced", func(t *testing.T) {
		generator := &mock.MockGenerator{
			GenerateFunc: func(ctx context.Context, system, prompt string) (string, error) {
				return "", &ai.RemoteError{Op: "chat", Status: 503, Message: "busy"}
			},
		}
		d, err := NewDecomposer(generator)
		require.NoError(t, err)

		_, err = d.Decompose(ctx, "准备路演", "")
		var remoteErr *ai.RemoteError
		require.True(t, errors.As(err, &remoteErr))
		assert.Equal(t, 503, remoteErr.Status)
	})

	t.Run("unparseable reply carries raw text", func(t *testing.T) {
		d, err := NewDecomposer(mock.NewMockGenerator("[]"))
		require.NoError(t, err)

		_, err = d.Decompose(ctx, "准备路演", "")
		var parseErr *ai.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "[]", parseErr.Raw)
	})
}
