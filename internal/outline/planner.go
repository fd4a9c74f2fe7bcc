// Package outline is the second pipeline stage: it turns the knowledge
// graph into a blueprint, generated when possible and templated otherwise,
// and always repaired before use.
package outline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
)

const maxPromptHeadings = 10

// Planner runs the outline stage
type Planner struct {
	backend  llm.Backend
	timeout  time.Duration
	minWords int
	logger   *zap.Logger
}

// NewPlanner creates a planner. A nil backend always uses templates.
func NewPlanner(cfg model.PipelineConfig, backend llm.Backend, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		backend:  backend,
		timeout:  cfg.Timeouts.Outline,
		minWords: cfg.Writing.MinWords,
		logger:   logger.Named("architect"),
	}
}

// Result is the outline stage output
type Result struct {
	Blueprint model.Blueprint
	Log       []string
}

// Plan produces a blueprint that always satisfies Blueprint.Validate
func (p *Planner) Plan(ctx context.Context, topic string, kg model.KnowledgeGraph) Result {
	trail := model.NewTrail("architect")

	resolver := resolve.Resolver[model.Blueprint]{
		Fallback: func() model.Blueprint { return Template(kg.ContentType, topic) },
	}
	if p.backend != nil {
		resolver.Generate = func(ctx context.Context) (model.Blueprint, error) {
			ctx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()
			raw, err := p.backend.Generate(ctx, Prompt(topic, kg))
			if err != nil {
				return model.Blueprint{}, err
			}
			return ParseBlueprint(raw)
		}
	}

	res := resolver.Resolve(ctx)
	if res.Tier == resolve.TierGenerated {
		trail.Logf("generated outline with %d sections", len(res.Value.Sections))
	} else {
		trail.Logf("outline generation unusable (%v); using %s template", res.Err, templateName(kg.ContentType))
	}

	bp, notes := Repair(res.Value, topic, p.minWords)
	for _, n := range notes {
		trail.Logf("repair: %s", n)
	}
	if err := bp.Validate(); err != nil {
		// Repair guarantees the invariants; reaching this is a bug
		p.logger.Error("repaired blueprint still invalid", zap.Error(err))
		trail.Logf("blueprint invalid after repair: %v", err)
	}

	p.logger.Debug("outline planned",
		zap.String("title", bp.Title),
		zap.Int("sections", len(bp.Sections)),
		zap.String("source", string(bp.Source)))

	return Result{Blueprint: bp, Log: trail.Lines()}
}

func templateName(kind model.ContentType) string {
	switch kind {
	case model.ContentDestination, model.ContentFood, model.ContentLodging:
		return string(kind)
	default:
		return "generic"
	}
}

// Prompt asks for an outline in the strict line contract
func Prompt(topic string, kg model.KnowledgeGraph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan an SEO travel article in Bahasa Indonesia about %q (content type: %s).\n", topic, kg.ContentType)
	if summary := kg.Field(model.FieldSummary); summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", summary)
	}

	var available []string
	if len(kg.Entities.Prices) > 0 {
		available = append(available, "prices")
	}
	if len(kg.Entities.OpeningHours) > 0 {
		available = append(available, "opening hours")
	}
	if len(kg.Entities.Locations) > 0 {
		available = append(available, "locations")
	}
	if len(kg.Entities.Contacts) > 0 {
		available = append(available, "contacts")
	}
	if len(available) > 0 {
		fmt.Fprintf(&b, "Data available: %s\n", strings.Join(available, ", "))
	}
	if len(kg.HeadingsSeen) > 0 {
		n := len(kg.HeadingsSeen)
		if n > maxPromptHeadings {
			n = maxPromptHeadings
		}
		fmt.Fprintf(&b, "Headings used by competing articles: %s\n", strings.Join(kg.HeadingsSeen[:n], "; "))
	}

	b.WriteString(`
Answer with exactly these lines and nothing else:
TITLE: <title, at most 8 words, no punctuation>
META: <meta description, at most 160 characters>
SECTION: <heading> | <paragraph count 1-4> | <paragraph|table|list|mixed> | <writing instruction>
(5 to 7 SECTION lines; at least one must use the table format)
CLOSING: <instruction for the conclusion>`)

	return b.String()
}
