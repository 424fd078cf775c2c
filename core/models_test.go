package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "user-1|42"},
		{name: "empty string", content: ""},
		{name: "unicode content", content: "用户|融资计划"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}

	t.Run("different content differs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("user-1|1"), IDFromContent("user-1|2"))
	})
}

func TestActionIsOpinion(t *testing.T) {
	assert.True(t, ActionLike.IsOpinion())
	assert.True(t, ActionDislike.IsOpinion())
	assert.False(t, ActionClick.IsOpinion())
	assert.False(t, ActionIgnore.IsOpinion())
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", MonthKey(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2025-04", MonthKey(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	// A local time just after midnight on the 1st may still be the previous month in UTC.
	east := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, "2025-03", MonthKey(time.Date(2025, 4, 1, 2, 0, 0, 0, east)))
}

func TestCatalogItemJSON(t *testing.T) {
	t.Run("embedding present", func(t *testing.T) {
		var item CatalogItem
		err := json.Unmarshal([]byte(`{"id":3,"title":"BP 模板","type":"template","tags":["融资"],"stage":"idea","clicks":10,"likes":2,"embedding":[0.1,0.2]}`), &item)
		require.NoError(t, err)
		assert.Equal(t, ResourceID(3), item.ID)
		assert.Equal(t, CategoryTemplate, item.Category)
		assert.True(t, item.HasEmbedding())
	})

	t.Run("embedding absent means no vector", func(t *testing.T) {
		var item CatalogItem
		err := json.Unmarshal([]byte(`{"id":4,"title":"x","type":"tool","tags":[]}`), &item)
		require.NoError(t, err)
		assert.False(t, item.HasEmbedding())
	})
}

func TestTaskUnmarshalJSON(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		var task Task
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"t","type":"finance","dueDate":"2025-06-01"}`), &task))
		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *task.DueDate)
	})

	t.Run("rfc3339", func(t *testing.T) {
		var task Task
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"t","type":"team","dueDate":"2025-06-01T10:00:00Z"}`), &task))
		require.NotNil(t, task.DueDate)
		assert.Equal(t, 10, task.DueDate.Hour())
	})

	t.Run("no date", func(t *testing.T) {
		var task Task
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"t","type":"team"}`), &task))
		assert.Nil(t, task.DueDate)
	})

	t.Run("bad date", func(t *testing.T) {
		var task Task
		err := json.Unmarshal([]byte(`{"id":"a","title":"t","type":"team","dueDate":"next week"}`), &task)
		assert.ErrorIs(t, err, ErrInvalidDueDate)
	})
}
