// Package expand is the fourth pipeline stage: it lengthens a draft that
// falls short of the minimum word count, one bounded round at a time.
package expand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/draft"
	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
)

// DefaultThreshold is the minimum word count when none is configured
const DefaultThreshold = 1000

// MaxRounds bounds the state machine
const MaxRounds = 5

// Round records one executed round
type Round struct {
	Name        string `json:"name"`
	Applied     bool   `json:"applied"`
	WordsBefore int    `json:"words_before"`
	WordsAfter  int    `json:"words_after"`
}

// Guarantor runs the length-guarantee stage
type Guarantor struct {
	backend llm.Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewGuarantor creates a guarantor. A nil backend skips the generative round.
func NewGuarantor(cfg model.PipelineConfig, backend llm.Backend, logger *zap.Logger) *Guarantor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarantor{
		backend: backend,
		timeout: cfg.Timeouts.Section,
		logger:  logger.Named("synthesizer"),
	}
}

// Result is the length-guarantee stage output
type Result struct {
	Document model.ArticleDocument
	Rounds   []Round
	Met      bool
	Log      []string
}

type round struct {
	name  string
	apply func(ctx context.Context, doc *model.ArticleDocument) bool
}

// Guarantee appends content until doc reaches threshold words or every
// round has run once. Word count never decreases from one round to the next.
func (g *Guarantor) Guarantee(ctx context.Context, topic string, kg model.KnowledgeGraph, doc model.ArticleDocument, threshold int) Result {
	trail := model.NewTrail("synthesizer")
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	doc = doc.Clone()
	doc.Assemble()

	rounds := []round{
		{"generative expansion", func(ctx context.Context, d *model.ArticleDocument) bool {
			return g.expand(ctx, topic, kg, d, threshold, trail)
		}},
		{"faq", func(_ context.Context, d *model.ArticleDocument) bool {
			if d.HasSection("FAQ", "Pertanyaan") {
				return false
			}
			d.InsertBeforeConclusion(faqBlock(topic, kg))
			return true
		}},
		{"nearby attractions", func(_ context.Context, d *model.ArticleDocument) bool {
			if d.HasSection("Sekitar", "Nearby", "Terdekat") {
				return false
			}
			d.InsertBeforeConclusion(nearbyBlock(topic, kg))
			return true
		}},
		{"visitor experience", func(_ context.Context, d *model.ArticleDocument) bool {
			if d.HasSection("Pengalaman", "Experience") {
				return false
			}
			d.InsertBeforeConclusion(experienceBlock(topic, kg))
			return true
		}},
		{"paragraph expansion", func(_ context.Context, d *model.ArticleDocument) bool {
			extra := elaborationParagraphs(topic)
			if n := len(d.Sections); n > 0 {
				d.Sections[n-1].ContentHTML = strings.TrimSpace(d.Sections[n-1].ContentHTML) + "\n" + extra
			} else {
				d.IntroductionHTML = strings.TrimSpace(d.IntroductionHTML) + "\n" + extra
			}
			d.Assemble()
			return true
		}},
	}

	var executed []Round
	for _, r := range rounds {
		if doc.WordCount >= threshold {
			break
		}
		before := doc.WordCount
		candidate := doc.Clone()
		applied := r.apply(ctx, &candidate)
		if applied && candidate.WordCount >= before {
			doc = candidate
		} else {
			applied = false
		}

		executed = append(executed, Round{Name: r.name, Applied: applied, WordsBefore: before, WordsAfter: doc.WordCount})
		if applied {
			trail.Logf("round %d (%s): %d -> %d words", len(executed), r.name, before, doc.WordCount)
		} else {
			trail.Logf("round %d (%s): skipped", len(executed), r.name)
		}
	}

	met := doc.WordCount >= threshold
	switch {
	case len(executed) == 0:
		trail.Logf("%d words already meet the %d-word threshold", doc.WordCount, threshold)
	case met:
		trail.Logf("threshold met after %d rounds: %d words", len(executed), doc.WordCount)
	default:
		trail.Logf("shortfall: %d of %d words after %d rounds (%d short)", doc.WordCount, threshold, len(executed), threshold-doc.WordCount)
		g.logger.Warn("length threshold not met",
			zap.String("topic", topic),
			zap.Int("words", doc.WordCount),
			zap.Int("threshold", threshold))
	}

	return Result{Document: doc, Rounds: executed, Met: met, Log: trail.Lines()}
}

// expand asks the backend for two or three extra sections and inserts them
// before the conclusion; it is accepted only if it adds words
func (g *Guarantor) expand(ctx context.Context, topic string, kg model.KnowledgeGraph, doc *model.ArticleDocument, threshold int, trail *model.Trail) bool {
	if g.backend == nil {
		return false
	}

	res := resolve.Resolver[[]model.ArticleSection]{
		Generate: func(ctx context.Context) ([]model.ArticleSection, error) {
			ctx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			raw, err := g.backend.Generate(ctx, ExpansionPrompt(topic, kg, *doc, threshold-doc.WordCount))
			if err != nil {
				return nil, err
			}
			return splitSections(topic, raw), nil
		},
		Accept: func(secs []model.ArticleSection) bool { return len(secs) > 0 },
	}.Resolve(ctx)

	if res.Tier != resolve.TierGenerated {
		trail.Logf("generative expansion unusable: %v", res.Err)
		return false
	}

	before := doc.WordCount
	doc.Sections = append(doc.Sections, res.Value...)
	doc.Assemble()
	return doc.WordCount > before
}

// splitSections cleans generated HTML and splits it at its <h2> elements.
// Text before the first heading becomes its own section.
func splitSections(topic, raw string) []model.ArticleSection {
	cleaned := draft.Cleanup(raw, "")
	parsed := model.ParseArticle(cleaned, model.DefaultConclusionHeading)

	var out []model.ArticleSection
	if htmltext.TextLength(parsed.IntroductionHTML) > 0 {
		heading := fmt.Sprintf(extraHeading, topic)
		out = append(out, model.ArticleSection{
			Heading:     heading,
			ContentHTML: draft.Cleanup(parsed.IntroductionHTML, heading),
		})
	}
	for _, sec := range parsed.Sections {
		if strings.TrimSpace(sec.Heading) == "" {
			continue
		}
		out = append(out, sec)
	}
	return out
}

// ExpansionPrompt asks for extra sections that do not repeat existing ones
func ExpansionPrompt(topic string, kg model.KnowledgeGraph, doc model.ArticleDocument, missing int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The travel article about %s needs about %d more words.\n", topic, max(missing, 300))
	headings := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		headings = append(headings, s.Heading)
	}
	fmt.Fprintf(&b, "Existing sections (do not repeat them): %s\n", strings.Join(headings, "; "))
	if v := kg.Field(model.FieldUnique); v != "" {
		fmt.Fprintf(&b, "Facts you may use: %s\n", v)
	}
	b.WriteString("Write 2-3 new sections of about 300 words in total, in Bahasa Indonesia. ")
	b.WriteString("Start each section with <h2>heading</h2> and use <p> paragraphs. No markdown, no conclusion.")

	return b.String()
}
