package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 3, cfg.Quota.Recommend)
	assert.Equal(t, ai.DefaultHost, cfg.AI.Host)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	path := writeConfig(t, `
database:
  path: /var/lib/curator
catalog:
  enriched: ""
  plain: /srv/resources.json
ai:
  api_key: file-id.file-secret
  timeout: 3s
quota:
  recommend: 10
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/curator", cfg.Database.Path)
	assert.Empty(t, cfg.Catalog.Enriched)
	assert.Equal(t, "/srv/resources.json", cfg.Catalog.Plain)
	assert.Equal(t, "file-id.file-secret", cfg.AI.APIKey.Value())
	assert.Equal(t, 3*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "glm-4-flash", cfg.AI.GeneratorModel, "unset fields keep defaults")
	assert.Equal(t, 10, cfg.Quota.Recommend)
	assert.Equal(t, 5, cfg.Quota.Decompose)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, "quota:\n  recommend: 10\n")
	t.Setenv("CURATOR_QUOTA_RECOMMEND", "7")
	t.Setenv("CURATOR_QUOTA_WEEKLY_REPORT", "2")
	t.Setenv("CURATOR_AI_API_KEY", "env-id.env-secret")
	t.Setenv("CURATOR_AI_OFFLINE", "true")
	t.Setenv("CURATOR_SERVER_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("AI_API_KEY", "other-id.other-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Quota.Recommend)
	assert.Equal(t, 2, cfg.Quota.WeeklyReport)
	assert.Equal(t, "env-id.env-secret", cfg.AI.APIKey.Value())
	assert.True(t, cfg.AI.Offline)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	t.Run("plain AI_API_KEY as fallback", func(t *testing.T) {
		t.Setenv("CURATOR_AI_API_KEY", "")
		os.Unsetenv("CURATOR_AI_API_KEY")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "other-id.other-secret", cfg.AI.APIKey.Value())
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "quota: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, content := range []string{
			"quota:\n  decompose: -1\n",
			"log:\n  level: verbose\n",
			"log:\n  format: xml\n",
			"database:\n  path: \"\"\n",
			"catalog:\n  enriched: \"\"\n  plain: \"\"\n",
		} {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err, content)
		}
	})

	t.Run("in-memory needs no path", func(t *testing.T) {
		_, err := Load(writeConfig(t, "database:\n  path: \"\"\n  in_memory: true\n"))
		assert.NoError(t, err)
	})
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("id.secret")
	assert.Equal(t, "[REDACTED]", fmt.Sprint(s))
	assert.Equal(t, "id.secret", s.Value())
	assert.Empty(t, Secret("").String())
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.AI.APIKey = "id.secret"
	cfg.AI.Timeout = 4 * time.Second

	aiCfg := ai.NewConfig(cfg.AI.AIOptions()...)
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, 4*time.Second, aiCfg.Timeout)
	assert.Equal(t, ai.DefaultHost, aiCfg.EmbeddingHost)

	limits := cfg.Quota.Limits()
	assert.Equal(t, 5, limits[core.FeatureDecompose])
	assert.Equal(t, 1, limits[core.FeatureWeeklyReport])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = LogConfig{Level: "loud"}.NewLogger(&buf)
	assert.Error(t, err)
}
