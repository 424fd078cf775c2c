package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ranking struct {
	PrioritizedIDs []string `json:"prioritizedIds"`
	Reasoning      string   `json:"reasoning"`
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
		ok   bool
	}{
		{name: "bare array", text: `["a","b"]`, want: []string{"a", "b"}, ok: true},
		{name: "surrounding prose", text: "Here you go:\n[\"调研\", \"访谈\"]\nGood luck!", want: []string{"调研", "访谈"}, ok: true},
		{name: "code fence", text: "```json\n[\"x\"]\n```", want: []string{"x"}, ok: true},
		{name: "trailing array ignored", text: `["first"] and also ["second"]`, want: []string{"first"}, ok: true},
		{name: "skips malformed bracket", text: `see [note] then ["real"]`, want: []string{"real"}, ok: true},
		{name: "no json", text: "I cannot help with that.", ok: false},
		{name: "unterminated", text: `["a", "b"`, ok: false},
		{name: "empty text", text: "", ok: false},
		{name: "wrong element type", text: `[1, 2, 3]`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONArray[string](tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	t.Run("object mid sentence", func(t *testing.T) {
		got, ok := ExtractJSONObject[ranking](`Sure! {"prioritizedIds":["2","1"],"reasoning":"finance first"} Hope this helps.`)
		require.True(t, ok)
		assert.Equal(t, []string{"2", "1"}, got.PrioritizedIDs)
		assert.Equal(t, "finance first", got.Reasoning)
	})

	t.Run("repairs unquoted key", func(t *testing.T) {
		got, ok := ExtractJSONObject[ranking](`{"prioritizedIds":["1"], reasoning":"only one"}`)
		require.True(t, ok)
		assert.Equal(t, "only one", got.Reasoning)
	})

	t.Run("no object", func(t *testing.T) {
		_, ok := ExtractJSONObject[ranking]("no braces here")
		assert.False(t, ok)
	})

	t.Run("broken object", func(t *testing.T) {
		_, ok := ExtractJSONObject[ranking](`{"prioritizedIds": [`)
		assert.False(t, ok)
	})
}

func TestRepairJSON(t *testing.T) {
	assert.Equal(t, `{"a": 1, "type": 2}`, repairJSON(`{"a": 1, type": 2}`))
	assert.Equal(t, `{"ok": true}`, repairJSON(`{"ok": true}`))
	assert.Equal(t, `[1, 2]`, repairJSON(`[1, 2]`))
}
