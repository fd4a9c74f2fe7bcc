// Package draft is the third pipeline stage: it writes the introduction,
// every planned section and the conclusion, one generation call each, and
// falls back to data-driven text when generation is unusable.
package draft

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
)

// Minimum visible text, in runes, for generated output to be accepted
const (
	IntroMinChars   = 100
	SectionMinChars = 80
)

// Drafter runs the drafting stage
type Drafter struct {
	backend llm.Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewDrafter creates a drafter. A nil backend drafts from data only.
func NewDrafter(cfg model.PipelineConfig, backend llm.Backend, logger *zap.Logger) *Drafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafter{
		backend: backend,
		timeout: cfg.Timeouts.Section,
		logger:  logger.Named("council"),
	}
}

// Result is the drafting stage output
type Result struct {
	Document model.ArticleDocument
	Drafts   []model.SectionDraft
	Log      []string
}

// Draft writes the whole article sequentially: introduction, sections in
// blueprint order, conclusion
func (d *Drafter) Draft(ctx context.Context, topic string, kg model.KnowledgeGraph, bp model.Blueprint) Result {
	trail := model.NewTrail("council")
	doc := model.ArticleDocument{ConclusionHeading: model.DefaultConclusionHeading}

	intro := d.resolveBlock(ctx, "", IntroPrompt(topic, bp, kg), IntroMinChars,
		func() (string, bool) {
			s := synthesizeIntro(topic, kg)
			return s, s != ""
		},
		func() string { return fillerIntro(topic) })
	doc.IntroductionHTML = intro.Value
	trail.Logf("introduction: %s", describe(intro))

	drafts := make([]model.SectionDraft, 0, len(bp.Sections))
	for _, spec := range bp.Sections {
		scope := ScopeFor(spec.Heading, kg)

		res := d.resolveBlock(ctx, spec.Heading, SectionPrompt(topic, spec, scope), SectionMinChars,
			func() (string, bool) {
				s, ok := synthesizeSection(spec, scope, topic, kg)
				if !ok {
					return "", false
				}
				return Cleanup(s, spec.Heading), true
			},
			func() string { return Cleanup(fillerSection(spec), spec.Heading) })

		html := res.Value
		if spec.RequiresTable && !hasTable(html) {
			if table := entityTable(topic, scope, kg); table != "" {
				html += "\n" + table
				trail.Logf("section %q: appended data table", spec.Heading)
			}
		}

		trail.Logf("section %q: %s", spec.Heading, describe(res))
		drafts = append(drafts, model.SectionDraft{
			Spec:      spec,
			HTML:      html,
			Generated: res.Tier == resolve.TierGenerated,
			Tier:      string(res.Tier),
		})
		doc.Sections = append(doc.Sections, model.ArticleSection{Heading: spec.Heading, ContentHTML: html})
	}

	conclusion := d.resolveBlock(ctx, model.DefaultConclusionHeading, ConclusionPrompt(topic, bp, kg), IntroMinChars,
		func() (string, bool) {
			return Cleanup(synthesizeConclusion(topic, kg), model.DefaultConclusionHeading), true
		},
		func() string { return Cleanup(fillerConclusion(topic), model.DefaultConclusionHeading) })
	doc.ConclusionHTML = conclusion.Value
	trail.Logf("conclusion: %s", describe(conclusion))

	doc.Assemble()
	trail.Logf("draft assembled: %d sections, %d words", len(doc.Sections), doc.WordCount)
	d.logger.Info("draft complete",
		zap.String("topic", topic),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("words", doc.WordCount))

	return Result{Document: doc, Drafts: drafts, Log: trail.Lines()}
}

// resolveBlock runs one generation call and cleans its output. Acceptance
// counts the body only, never the heading Cleanup prepends.
func (d *Drafter) resolveBlock(ctx context.Context, heading, prompt string, minChars int,
	synthesize func() (string, bool), fallback func() string) resolve.Result[string] {

	resolver := resolve.Resolver[string]{
		Accept: func(s string) bool {
			return htmltext.TextLength(s)-htmltext.TextLength(htmltext.Escape(heading)) > minChars
		},
		Synthesize: synthesize,
		Fallback:   fallback,
	}
	if d.backend != nil {
		resolver.Generate = func(ctx context.Context) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			raw, err := d.backend.Generate(ctx, prompt)
			if err != nil {
				return "", err
			}
			return Cleanup(raw, heading), nil
		}
	}

	res := resolver.Resolve(ctx)
	if res.Err != nil {
		d.logger.Debug("generation unusable",
			zap.String("heading", heading),
			zap.String("tier", string(res.Tier)),
			zap.Error(res.Err))
	}
	return res
}

func describe(res resolve.Result[string]) string {
	if res.Err == nil {
		return string(res.Tier)
	}
	return string(res.Tier) + " (" + res.Err.Error() + ")"
}

func hasTable(html string) bool {
	if htmltext.CountElements(html, "table") > 0 {
		return true
	}
	for _, line := range strings.Split(html, "\n") {
		if mdTableRow.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
