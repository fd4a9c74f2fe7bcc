// Package rewrite is the sixth pipeline stage: it makes the article read
// less machine-written without ever touching protected names, prices or
// markup, then audits the result.
package rewrite

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
	"github.com/ppiankov/hyperion/internal/score"
)

// PolishTolerance is the largest relative word-count change a polish may make
const PolishTolerance = 0.2

// Editor runs the rewriting stage
type Editor struct {
	backend llm.Backend
	cfg     model.WritingConfig
	timeout time.Duration
	rng     *rand.Rand
	scorer  *score.Scorer
	logger  *zap.Logger
}

// NewEditor creates an editor. The random source is seeded from
// cfg.Writing.Seed, or from the clock when it is zero.
func NewEditor(cfg model.PipelineConfig, backend llm.Backend, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Writing.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Editor{
		backend: backend,
		cfg:     cfg.Writing,
		timeout: cfg.Timeouts.Polish,
		rng:     rand.New(rand.NewSource(seed)),
		scorer:  score.NewScorer(),
		logger:  logger.Named("editor"),
	}
}

// WithRand replaces the random source
func (e *Editor) WithRand(r *rand.Rand) *Editor {
	e.rng = r
	return e
}

// Result is the rewriting stage output
type Result struct {
	Document      model.ArticleDocument
	Scores        model.ScoreReport
	Substitutions []Substitution
	Log           []string
}

// Run applies every pass in order and scores the result
func (e *Editor) Run(ctx context.Context, topic string, doc model.ArticleDocument) Result {
	trail := model.NewTrail("editor")
	out := doc.Clone()
	brand := e.cfg.BrandName

	protected := NewProtectedTermSet(topic, brand)
	trail.Logf("protecting %d terms", len(protected.Terms()))

	removed := 0
	eachPart(&out, func(s string) string {
		s, n := stripBoilerplate(s)
		removed += n
		return s
	})
	trail.Logf("removed %d boilerplate phrases", removed)

	sub := &Substituter{
		Protected:       protected,
		Intensity:       e.cfg.SpinIntensity,
		ProtectedWindow: e.cfg.ProtectedWindow,
		NumericWindow:   e.cfg.NumericWindow,
		Rand:            e.rng,
	}
	var subs []Substitution
	eachPart(&out, func(s string) string {
		s, done := sub.Apply(s)
		subs = append(subs, done...)
		return s
	})
	trail.Logf("made %d safe substitutions (intensity %.2f)", len(subs), e.cfg.SpinIntensity)

	eachPart(&out, func(s string) string { return grammar(s, brand) })

	pronouns := 0
	eachPart(&out, func(s string) string {
		s, n := replacePronouns(s, brand)
		pronouns += n
		return s
	})
	if pronouns > 0 {
		trail.Logf("replaced %d first-person pronouns with %s", pronouns, brand)
	}

	out.Assemble()
	e.polish(ctx, topic, &out, trail)

	scores := e.scorer.Audit(out.FullHTML, topic)
	trail.Logf("SEO score %d, readability %d", scores.SEO.Score, scores.Readability.Score)
	e.logger.Info("rewrite complete",
		zap.String("topic", topic),
		zap.Int("substitutions", len(subs)),
		zap.Int("seo", scores.SEO.Score),
		zap.Int("readability", scores.Readability.Score))

	return Result{Document: out, Scores: scores, Substitutions: subs, Log: trail.Lines()}
}

// eachPart applies fn to the introduction, every section and the
// conclusion, then reassembles
func eachPart(doc *model.ArticleDocument, fn func(string) string) {
	doc.IntroductionHTML = fn(doc.IntroductionHTML)
	for i := range doc.Sections {
		doc.Sections[i].ContentHTML = fn(doc.Sections[i].ContentHTML)
	}
	doc.ConclusionHTML = fn(doc.ConclusionHTML)
	doc.Assemble()
}

var fences = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// polish asks the backend for a light copy edit of the whole article. The
// result is kept only if it keeps every section and stays within
// PolishTolerance of the current word count.
func (e *Editor) polish(ctx context.Context, topic string, doc *model.ArticleDocument, trail *model.Trail) {
	switch {
	case !e.cfg.PolishEnabled:
		return
	case e.backend == nil:
		trail.Logf("polish skipped: no backend")
		return
	case e.cfg.PolishMaxChars > 0 && len(doc.FullHTML) > e.cfg.PolishMaxChars:
		trail.Logf("polish skipped: %d chars exceeds ceiling %d", len(doc.FullHTML), e.cfg.PolishMaxChars)
		return
	}

	before := doc.WordCount
	headings := htmltext.CountElements(doc.FullHTML, "h2")

	res := resolve.Resolver[string]{
		Generate: func(ctx context.Context) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			raw, err := e.backend.Generate(ctx, PolishPrompt(topic, e.cfg.BrandName, doc.FullHTML))
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(fences.ReplaceAllString(raw, "")), nil
		},
		Accept: func(s string) bool {
			return htmltext.CountElements(s, "h2") == headings && withinTolerance(before, htmltext.WordCount(s))
		},
	}.Resolve(ctx)

	if res.Tier != resolve.TierGenerated {
		trail.Logf("polish discarded: %v", res.Err)
		return
	}

	doc.SetFullHTML(res.Value)
	trail.Logf("polish accepted: %d -> %d words", before, doc.WordCount)
}

func withinTolerance(before, after int) bool {
	if before == 0 {
		return after == 0
	}
	delta := float64(after-before) / float64(before)
	return delta >= -PolishTolerance && delta <= PolishTolerance
}

// PolishPrompt asks for a copy edit that keeps markup and facts
func PolishPrompt(topic, brand, html string) string {
	return fmt.Sprintf("Polish the Bahasa Indonesia of this travel article about %s. "+
		"Fix awkward phrasing only. Keep every HTML tag, heading, number, price and the name %s exactly as they are. "+
		"Do not add or remove sections. Return only the HTML.\n\n%s", topic, brand, html)
}
