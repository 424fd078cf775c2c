package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// writeTestConfig writes an offline, in-memory configuration over a small catalog.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	plain := filepath.Join(dir, "resources.json")
	require.NoError(t, catalog.WriteFile(plain, []*core.CatalogItem{
		{ID: 1, Title: "BP 模板", Description: "商业计划书写作", Category: core.CategoryTemplate, Tags: []string{"融资", "BP"}, Stage: core.StageIdea},
		{ID: 2, Title: "用户访谈", Description: "访谈提纲", Category: core.CategoryCourse, Tags: []string{"用户调研"}, Stage: core.StageIdea},
	}))

	path := filepath.Join(dir, "curator.yaml")
	content := strings.Join([]string{
		"database:",
		"  in_memory: true",
		"catalog:",
		"  enriched: " + filepath.Join(dir, "missing.json"),
		"  plain: " + plain,
		"ai:",
		"  offline: true",
		"log:",
		"  level: error",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"curator"}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, name string) *cli.Command {
	t.Helper()
	for _, cmd := range newApp().Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "recommend", "prioritize", "decompose", "interact", "usage", "feedback", "precompute"} {
		t.Run(name, func(t *testing.T) {
			cmd := findCommand(t, name)
			assert.NotNil(t, cmd.Action)
		})
	}
}

func TestPrecomputeFlagDefaults(t *testing.T) {
	cmd := findCommand(t, "precompute")

	ints := map[string]int{}
	var retryDelay time.Duration
	for _, flag := range cmd.Flags {
		switch f := flag.(type) {
		case *cli.IntFlag:
			ints[f.Name] = f.Value
		case *cli.DurationFlag:
			retryDelay = f.Value
		}
	}

	assert.Equal(t, 10, ints["batch-size"])
	assert.Equal(t, 10, ints["report-interval"])
	assert.Equal(t, 3, ints["max-retries"])
	assert.Equal(t, time.Second, retryDelay)
}

func TestRequiredFlags(t *testing.T) {
	cfg := writeTestConfig(t)

	t.Run("recommend needs user and title", func(t *testing.T) {
		_, err := runApp(t, "--config", cfg, "recommend")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user")
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("interact needs resource and action", func(t *testing.T) {
		_, err := runApp(t, "--config", cfg, "interact", "--user", "u1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resource")
	})
}

func TestSetup(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		_, err := runApp(t, "--config", writeTestConfig(t), "--log-level", "verbose", "usage", "--user", "u1")
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "usage", "--user", "u1")
		assert.Error(t, err)
	})
}

func TestRecommendCommand(t *testing.T) {
	out, err := runApp(t, "--config", writeTestConfig(t),
		"recommend", "--user", "u1", "--title", "准备融资", "--type", "finance", "--limit", "1")
	require.NoError(t, err)

	var rec struct {
		Resources []struct {
			Item core.CatalogItem `json:"item"`
		} `json:"resources"`
		Path      string `json:"path"`
		Remaining int    `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Len(t, rec.Resources, 1)
	assert.Equal(t, core.ResourceID(1), rec.Resources[0].Item.ID)
	assert.Equal(t, "heuristic", rec.Path)
	assert.Equal(t, 2, rec.Remaining)
}

func TestPrioritizeCommand(t *testing.T) {
	dir := t.TempDir()
	tasks := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(tasks, []byte(`[
		{"id": "1", "title": "招人", "type": "team"},
		{"id": "2", "title": "融资", "type": "finance", "dueDate": "2025-05-01"}
	]`), 0644))

	out, err := runApp(t, "--config", writeTestConfig(t), "prioritize", "--file", tasks)
	require.NoError(t, err)

	var result struct {
		IDs []string `json:"prioritizedIds"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"2", "1"}, result.IDs)
}

func TestReadTasks(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		tasks, err := readTasks("-", strings.NewReader(`[{"id":"a","title":"写 BP","type":"finance"}]`))
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, core.TaskTypeFinance, tasks[0].Type)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := readTasks("-", strings.NewReader(`{`))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readTasks(filepath.Join(t.TempDir(), "none.json"), nil)
		assert.Error(t, err)
	})
}

func TestInteractCommand(t *testing.T) {
	out, err := runApp(t, "--config", writeTestConfig(t),
		"interact", "--user", "u1", "--resource", "1", "--action", "like", "--tag", "融资")
	require.NoError(t, err)

	var outcome map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, "like", outcome["action"])
	assert.Equal(t, "created", outcome["change"])
	assert.Equal(t, true, outcome["active"])

	t.Run("invalid action", func(t *testing.T) {
		_, err := runApp(t, "--config", writeTestConfig(t),
			"interact", "--user", "u1", "--resource", "1", "--action", "share")
		assert.ErrorIs(t, err, core.ErrInvalidAction)
	})
}

func TestDecomposeCommandOffline(t *testing.T) {
	_, err := runApp(t, "--config", writeTestConfig(t), "decompose", "--user", "u1", "--title", "准备路演")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote generator")
}

func TestUsageCommand(t *testing.T) {
	out, err := runApp(t, "--config", writeTestConfig(t), "usage", "--user", "u1")
	require.NoError(t, err)

	var usage []core.FeatureUsage
	require.NoError(t, json.Unmarshal([]byte(out), &usage))
	assert.Len(t, usage, len(core.Features))
}
