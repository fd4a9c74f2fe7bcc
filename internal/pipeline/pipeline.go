// Package pipeline runs the seven article stages in order and assembles
// the result a job runner consumes.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/cache"
	"github.com/ppiankov/hyperion/internal/connect"
	"github.com/ppiankov/hyperion/internal/draft"
	"github.com/ppiankov/hyperion/internal/expand"
	"github.com/ppiankov/hyperion/internal/format"
	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/outline"
	"github.com/ppiankov/hyperion/internal/research"
	"github.com/ppiankov/hyperion/internal/rewrite"
	"github.com/ppiankov/hyperion/internal/score"
	"github.com/ppiankov/hyperion/internal/search"
)

// Stage names, in execution order
const (
	StageOracle      = "oracle"
	StageArchitect   = "architect"
	StageCouncil     = "council"
	StageSynthesizer = "synthesizer"
	StageStylist     = "stylist"
	StageEditor      = "editor"
	StageConnector   = "connector"
)

// StageCount is the number of stages a complete run executes
const StageCount = 7

// Pipeline orchestrates one article run
type Pipeline struct {
	cfg        model.PipelineConfig
	researcher *research.Researcher
	planner    *outline.Planner
	drafter    *draft.Drafter
	guarantor  *expand.Guarantor
	editor     *rewrite.Editor
	connector  *connect.Connector
	scorer     *score.Scorer
	logger     *zap.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithEngines replaces the research search engines
func WithEngines(engines ...research.Engine) Option {
	return func(p *Pipeline) { p.researcher.WithEngines(engines...) }
}

// NewPipeline wires every stage with the same backend and content index.
// backend and content may be nil: stages then use their data-driven paths.
func NewPipeline(cfg model.PipelineConfig, backend llm.Backend, content search.ContentSearch, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := research.NewFetcher(research.FetcherConfigFromModel(cfg), cache.New(cfg.Cache))

	p := &Pipeline{
		cfg:        cfg,
		researcher: research.NewResearcher(cfg, backend, fetcher, content, logger),
		planner:    outline.NewPlanner(cfg, backend, logger),
		drafter:    draft.NewDrafter(cfg, backend, logger),
		guarantor:  expand.NewGuarantor(cfg, backend, logger),
		editor:     rewrite.NewEditor(cfg, backend, logger),
		connector:  connect.NewConnector(cfg, content, logger),
		scorer:     score.NewScorer(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run produces an article for topic. It never fails: every stage degrades
// to data-driven or placeholder output, and a stage that panics is logged
// and skipped, leaving the previous artifact in place.
func (p *Pipeline) Run(ctx context.Context, topic string) model.PipelineResult {
	res := model.PipelineResult{
		RunID:     uuid.NewString(),
		Topic:     topic,
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With(zap.String("run_id", res.RunID), zap.String("topic", topic))
	logger.Info("pipeline started")

	kg := model.KnowledgeGraph{Topic: topic, ContentType: model.ContentDestination}
	var bp model.Blueprint
	var doc model.ArticleDocument

	p.trackStage(&res, logger, StageOracle, func() []string {
		r := p.researcher.Run(ctx, topic)
		kg = r.Graph
		return r.Log
	})

	if !p.trackStage(&res, logger, StageArchitect, func() []string {
		r := p.planner.Plan(ctx, topic, kg)
		bp = r.Blueprint
		return r.Log
	}) {
		bp = outline.Template(kg.ContentType, topic)
	}

	p.trackStage(&res, logger, StageCouncil, func() []string {
		r := p.drafter.Draft(ctx, topic, kg, bp)
		doc = r.Document
		return r.Log
	})

	p.trackStage(&res, logger, StageSynthesizer, func() []string {
		r := p.guarantor.Guarantee(ctx, topic, kg, doc, p.cfg.Writing.MinWords)
		doc = r.Document
		return r.Log
	})

	p.trackStage(&res, logger, StageStylist, func() []string {
		r := format.Format(topic, kg.ContentType, doc)
		doc = r.Document
		return r.Log
	})

	p.trackStage(&res, logger, StageEditor, func() []string {
		r := p.editor.Run(ctx, topic, doc)
		doc = r.Document
		return r.Log
	})

	p.trackStage(&res, logger, StageConnector, func() []string {
		r := p.connector.Run(ctx, topic, doc, kg)
		doc = r.Document
		res.Taxonomy = r.Taxonomy
		res.ImageSuggestions = r.Images
		return r.Log
	})

	doc.Assemble()
	res.FinalHTML = doc.FullHTML
	res.WordCount = doc.WordCount
	res.Title = bp.Title
	res.MetaDescription = bp.MetaDescription
	res.Scores = p.scorer.Audit(res.FinalHTML, topic)
	res.SEOScore = res.Scores.SEO.Score
	res.ReadabilityScore = res.Scores.Readability.Score
	res.FormatStats = format.Stats(res.FinalHTML)
	res.Duration = time.Since(res.StartedAt)

	if n := htmltext.WordCount(res.FinalHTML); n != res.WordCount {
		logger.Error("word count out of sync", zap.Int("stored", res.WordCount), zap.Int("actual", n))
		res.WordCount = n
	}

	logger.Info("pipeline finished",
		zap.Int("stages_completed", res.StagesCompleted),
		zap.Int("words", res.WordCount),
		zap.Int("seo", res.SEOScore),
		zap.Int("readability", res.ReadabilityScore),
		zap.Duration("duration", res.Duration))
	return res
}

// trackStage runs one stage, recording its outcome and log lines. The stage
// function only assigns its artifact after the stage call returns, so a
// panic leaves the previous artifact untouched.
func (p *Pipeline) trackStage(res *model.PipelineResult, logger *zap.Logger, name string, fn func() []string) (ok bool) {
	start := time.Now()
	outcome := model.StageOutcome{Name: name}

	defer func() {
		if r := recover(); r != nil {
			outcome.Error = fmt.Sprintf("panic: %v", r)
			res.StageLog = append(res.StageLog, fmt.Sprintf("[%s] stage failed: %v", name, r))
			logger.Error("stage panicked", zap.String("stage", name), zap.Any("panic", r), zap.Stack("stack"))
			ok = false
		}
		outcome.Duration = time.Since(start)
		outcome.Completed = ok
		res.Stages = append(res.Stages, outcome)
		if ok {
			res.StagesCompleted++
		}
	}()

	lines := fn()
	res.StageLog = append(res.StageLog, lines...)
	logger.Debug("stage complete", zap.String("stage", name), zap.Duration("duration", time.Since(start)))
	return true
}
