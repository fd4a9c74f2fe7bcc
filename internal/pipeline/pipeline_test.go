package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/research"
)

func testConfig() model.PipelineConfig {
	cfg := model.DefaultConfig()
	cfg.RateLimiting.RequestsPerSecond = 1000
	cfg.RateLimiting.Burst = 100
	cfg.RateLimiting.FetchDelay = 0
	cfg.Research.MaxQueries = 3
	cfg.Writing.Seed = 7
	return cfg
}

// unreachable answers every request with 404, which the fetcher does not retry
func unreachable(t *testing.T) []research.Engine {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return []research.Engine{
		research.DuckDuckGo{BaseURL: srv.URL + "/html/"},
		research.Bing{BaseURL: srv.URL + "/search"},
	}
}

func TestRun_AllFetchesFail(t *testing.T) {
	p := NewPipeline(testConfig(), nil, nil, zap.NewNop(), WithEngines(unreachable(t)...))

	res := p.Run(context.Background(), "Kuta Beach Bali")

	assert.Equal(t, StageCount, res.StagesCompleted)
	require.Len(t, res.Stages, StageCount)
	for _, s := range res.Stages {
		assert.True(t, s.Completed, s.Name)
		assert.Empty(t, s.Error, s.Name)
	}
	assert.Equal(t, StageOracle, res.Stages[0].Name)
	assert.Equal(t, StageConnector, res.Stages[6].Name)

	assert.NotEmpty(t, res.FinalHTML)
	assert.GreaterOrEqual(t, res.WordCount, 1)
	assert.Equal(t, htmltext.WordCount(res.FinalHTML), res.WordCount)
	assert.NotEmpty(t, res.Title)

	_, err := uuid.Parse(res.RunID)
	assert.NoError(t, err)

	assert.Contains(t, res.FinalHTML, "<h2>")
	assert.Contains(t, res.FinalHTML, `class="disclaimer"`)
	assert.GreaterOrEqual(t, len(res.Taxonomy.Tags), 3)
	assert.NotEmpty(t, res.ImageSuggestions)
	assert.Equal(t, res.Scores.SEO.Score, res.SEOScore)
	assert.Equal(t, res.Scores.Readability.Score, res.ReadabilityScore)

	prefixes := map[string]bool{}
	for _, line := range res.StageLog {
		if i := strings.Index(line, "]"); strings.HasPrefix(line, "[") && i > 0 {
			prefixes[line[1:i]] = true
		}
	}
	for _, stage := range []string{StageOracle, StageArchitect, StageCouncil, StageSynthesizer, StageEditor, StageConnector} {
		assert.True(t, prefixes[stage], "no log lines from %s", stage)
	}
}

func TestRun_PanickingStageIsSkipped(t *testing.T) {
	backend := llm.BackendFunc(func(context.Context, string) (string, error) {
		panic("provider exploded")
	})
	p := NewPipeline(testConfig(), backend, nil, nil, WithEngines(unreachable(t)...))

	res := p.Run(context.Background(), "Kuta Beach Bali")

	require.Len(t, res.Stages, StageCount)
	assert.False(t, res.Stages[0].Completed)
	assert.Contains(t, res.Stages[0].Error, "provider exploded")
	assert.True(t, res.Stages[4].Completed, "formatting never calls the backend")
	assert.True(t, res.Stages[6].Completed, "linking never calls the backend")

	completed := 0
	for _, s := range res.Stages {
		if s.Completed {
			completed++
		}
	}
	assert.Equal(t, completed, res.StagesCompleted)
	assert.Less(t, res.StagesCompleted, StageCount)

	assert.NotEmpty(t, res.Title, "outline falls back to a template")
	assert.NotEmpty(t, res.FinalHTML)
	assert.Equal(t, htmltext.WordCount(res.FinalHTML), res.WordCount)
}

func TestTrackStage(t *testing.T) {
	p := NewPipeline(testConfig(), nil, nil, nil)
	var res model.PipelineResult

	ok := p.trackStage(&res, zap.NewNop(), "first", func() []string { return []string{"[first] done"} })
	assert.True(t, ok)

	artifact := "prior"
	ok = p.trackStage(&res, zap.NewNop(), "second", func() []string {
		var m map[string]int
		m["boom"] = 1
		artifact = "replaced"
		return nil
	})
	assert.False(t, ok)
	assert.Equal(t, "prior", artifact)

	assert.Equal(t, 1, res.StagesCompleted)
	require.Len(t, res.Stages, 2)
	assert.Contains(t, res.Stages[1].Error, "panic")
	assert.Equal(t, "[first] done", res.StageLog[0])
	assert.Contains(t, res.StageLog[1], "[second] stage failed")
}
