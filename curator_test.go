package curator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/catalog"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/priority"
	"github.com/poiesic/curator/quota"
	"github.com/poiesic/curator/search"
	"github.com/poiesic/curator/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() catalog.SliceSource {
	return catalog.SliceSource{
		{ID: 1, Title: "BP 模板", Description: "商业计划书写作", Category: core.CategoryTemplate, Tags: []string{"融资", "BP"}, Stage: core.StageIdea},
		{ID: 2, Title: "估值入门", Description: "早期估值方法", Category: core.CategoryArticle, Tags: []string{"估值", "股权"}, Stage: core.StageMVP},
		{ID: 3, Title: "用户访谈", Description: "访谈提纲", Category: core.CategoryCourse, Tags: []string{"用户调研"}, Stage: core.StageIdea},
		{ID: 4, Title: "招聘手册", Description: "早期团队招聘", Category: core.CategoryArticle, Tags: []string{"招聘", "HR"}, Stage: core.StageGrowth},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithInMemory(),
		WithOffline(),
		WithCatalogSources(testItems(), nil),
	}
	engine, err := NewEngine("", append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func financeQuery() *core.Query {
	return &core.Query{Title: "准备融资", TaskType: core.TaskTypeFinance}
}

func TestNewEngine(t *testing.T) {
	t.Run("on disk", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "curator_db")
		engine, err := NewEngine(dir, WithOffline(), WithCatalogSources(testItems(), nil))
		require.NoError(t, err)
		assert.True(t, engine.Offline())
		assert.NoError(t, engine.Close())
	})

	t.Run("invalid path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		engine, err := NewEngine(file, WithOffline())
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("missing credential", func(t *testing.T) {
		_, err := NewEngine("", WithInMemory())
		var cfgErr *ai.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("injected provider", func(t *testing.T) {
		engine, err := NewEngine("", WithInMemory(), WithProvider(mock.NewMockProvider()), WithCatalogSources(testItems(), nil))
		require.NoError(t, err)
		defer engine.Close()
		assert.False(t, engine.Offline())
	})
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("heuristic when offline", func(t *testing.T) {
		engine := newTestEngine(t)
		rec, err := engine.Recommend(ctx, "u1", financeQuery())
		require.NoError(t, err)
		assert.Equal(t, search.PathHeuristic, rec.Path)
		require.NotEmpty(t, rec.Items)
		assert.Equal(t, core.ResourceID(1), rec.Items[0].Item.ID)
		assert.Equal(t, 2, rec.Remaining)
	})

	t.Run("semantic with provider", func(t *testing.T) {
		provider := mock.NewMockProvider()
		items := testItems()
		for _, item := range items {
			item.Embedding = mock.DeterministicVector(item.Title, 8)
		}
		engine := newTestEngine(t, WithProvider(provider), WithCatalogSources(items, nil))

		rec, err := engine.Recommend(ctx, "u1", financeQuery())
		require.NoError(t, err)
		assert.Equal(t, search.PathSemantic, rec.Path)
		assert.Equal(t, 1, provider.GetMockEmbedder().CallCount())
	})

	t.Run("quota exhausted after three", func(t *testing.T) {
		engine := newTestEngine(t)
		for range 3 {
			rec, err := engine.Recommend(ctx, "u1", financeQuery())
			require.NoError(t, err)
			assert.False(t, rec.QuotaExceeded)
		}
		rec, err := engine.Recommend(ctx, "u1", financeQuery())
		require.NoError(t, err)
		assert.True(t, rec.QuotaExceeded)
		assert.Empty(t, rec.Items)
	})

	t.Run("remote failure still consumes quota", func(t *testing.T) {
		provider := mock.NewMockProvider()
		provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, &ai.RemoteError{Op: "embeddings", Status: 503, Message: "down"}
		}
		items := testItems()
		for _, item := range items {
			item.Embedding = mock.DeterministicVector(item.Title, 8)
		}
		engine := newTestEngine(t, WithProvider(provider), WithCatalogSources(items, nil))

		rec, err := engine.Recommend(ctx, "u1", financeQuery())
		require.NoError(t, err)
		assert.Equal(t, search.PathHeuristic, rec.Path)
		assert.Equal(t, 2, rec.Remaining)
	})

	t.Run("exclusions", func(t *testing.T) {
		engine := newTestEngine(t, WithQuotaLimits(quota.Limits{core.FeatureRecommend: 10}))
		q := financeQuery()
		q.ExcludeIDs = []core.ResourceID{1, 2}
		rec, err := engine.Recommend(ctx, "u1", q)
		require.NoError(t, err)
		for _, scored := range rec.Items {
			assert.NotContains(t, q.ExcludeIDs, scored.Item.ID)
		}

		q.ExcludeIDs = []core.ResourceID{1, 2, 3, 4}
		rec, err = engine.Recommend(ctx, "u1", q)
		require.NoError(t, err)
		assert.True(t, rec.Exhausted)
		assert.Empty(t, rec.Items)
	})

	t.Run("liked tags come from the ledger", func(t *testing.T) {
		engine := newTestEngine(t)
		_, err := engine.RecordInteraction(ctx, "u1", 4, core.ActionLike, []string{"招聘", "HR"})
		require.NoError(t, err)

		rec, err := engine.Recommend(ctx, "u1", &core.Query{Title: "写周报", TaskType: core.TaskTypeOther})
		require.NoError(t, err)
		require.NotEmpty(t, rec.Items)
		assert.Equal(t, core.ResourceID(4), rec.Items[0].Item.ID)
	})

	t.Run("invalid input consumes nothing", func(t *testing.T) {
		engine := newTestEngine(t)
		_, err := engine.Recommend(ctx, "u1", &core.Query{Title: "x", TaskType: core.TaskTypeFinance})
		assert.ErrorIs(t, err, core.ErrInvalidQuery)

		_, err = engine.Recommend(ctx, "", financeQuery())
		assert.ErrorIs(t, err, core.ErrEmptyUserID)

		usage, err := engine.Usage(ctx, "u1")
		require.NoError(t, err)
		for _, u := range usage {
			assert.Zero(t, u.Used)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		engine := newTestEngine(t, WithCatalogSources(catalog.SliceSource{}, nil))
		_, err := engine.Recommend(ctx, "u1", financeQuery())
		assert.ErrorIs(t, err, search.ErrCatalogUnavailable)
	})
}

func TestPrioritize(t *testing.T) {
	engine := newTestEngine(t)
	due := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	result, err := engine.Prioritize(context.Background(), []core.Task{
		{ID: "1", Title: "招人", Type: core.TaskTypeTeam},
		{ID: "2", Title: "融资", Type: core.TaskTypeFinance, DueDate: &due},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, result.IDs)
	assert.Equal(t, priority.SourceBaseline, result.Source)
}

func TestDecompose(t *testing.T) {
	ctx := context.Background()

	t.Run("offline", func(t *testing.T) {
		engine := newTestEngine(t)
		_, err := engine.Decompose(ctx, "u1", "准备路演", "")
		assert.ErrorIs(t, err, ErrRemoteUnavailable)
	})

	t.Run("quota and failures", func(t *testing.T) {
		generator := mock.NewMockGenerator(`["整理数据", "写讲稿", "排练"]`)
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)
		engine := newTestEngine(t, WithProvider(provider), WithQuotaLimits(quota.Limits{core.FeatureDecompose: 2}))

		result, err := engine.Decompose(ctx, "u1", "准备路演", "下周投资人见面")
		require.NoError(t, err)
		assert.Equal(t, []string{"整理数据", "写讲稿", "排练"}, result.Subtasks)
		assert.Equal(t, 1, result.Remaining)

		generator.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
			return "", &ai.RemoteError{Op: "chat", Status: 500, Message: "boom"}
		}
		_, err = engine.Decompose(ctx, "u1", "准备路演", "")
		var remoteErr *ai.RemoteError
		assert.True(t, errors.As(err, &remoteErr))

		result, err = engine.Decompose(ctx, "u1", "准备路演", "")
		require.NoError(t, err)
		assert.True(t, result.QuotaExceeded, "failed call was not refunded")
	})
}

func TestInteractions(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	out, err := engine.RecordInteraction(ctx, "u1", 2, core.ActionLike, []string{"估值"})
	require.NoError(t, err)
	assert.True(t, out.Active)

	_, err = engine.RecordInteraction(ctx, "u1", 3, core.ActionClick, nil)
	require.NoError(t, err)

	action, ok, err := engine.InteractionFor(ctx, "u1", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.ActionLike, action)

	tags, err := engine.LikedTags(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"估值"}, tags)

	stats, err := engine.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Likes)
	assert.Equal(t, 1, stats.Clicks)

	engine.Flush()
	records, err := engine.Feedback(ctx, storage.FeedbackFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.ResourceID(2), records[0].ResourceID)
	assert.Equal(t, core.ActionLike, records[0].Action)
}

func TestUsageAndMonthRollover(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	ok, err := engine.ConsumeQuota(ctx, "u1", core.FeatureWeeklyReport)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = engine.ConsumeQuota(ctx, "u1", core.FeatureWeeklyReport)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(2 * time.Hour)
	usage, err := engine.Usage(ctx, "u1")
	require.NoError(t, err)
	for _, u := range usage {
		assert.Zero(t, u.Used, u.Feature)
	}
}
