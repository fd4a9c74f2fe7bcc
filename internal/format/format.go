// Package format is the fifth pipeline stage: it turns a plain draft into
// rich markup with emphasis, styled tables and lists, callouts and section
// dividers, and counts what it produced.
package format

import (
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// Divider precedes every <h2> except the first
const Divider = `<hr class="section-divider">`

// Result is the formatting stage output
type Result struct {
	Document model.ArticleDocument
	Stats    model.FormatStats
	Log      []string
}

// Format enriches every part of doc. The input is not modified.
func Format(topic string, kind model.ContentType, doc model.ArticleDocument) Result {
	trail := model.NewTrail("stylist")
	out := doc.Clone()

	bold := compileTerms(Keywords(topic, kind))
	italic := compileTerms(loanwords)
	italicUsed := make(map[string]bool)

	var markdownBlocks, bolded, italicized, calloutCount int
	part := func(s string) string {
		s, n := NormalizeMarkdown(s)
		markdownBlocks += n
		s, n = callouts(s)
		calloutCount += n
		s = addClasses(s)
		s, n = wrapTerms(s, bold, "strong", MaxBoldPerSection, make(map[string]bool), "strong", "b")
		bolded += n
		s, n = wrapTerms(s, italic, "em", 0, italicUsed, "em", "i", "strong", "b")
		italicized += n
		return s
	}

	out.IntroductionHTML = part(out.IntroductionHTML)
	for i := range out.Sections {
		out.Sections[i].ContentHTML = part(out.Sections[i].ContentHTML)
	}
	out.ConclusionHTML = part(out.ConclusionHTML)

	dividers := 0
	for i := range out.Sections {
		if i == 0 {
			continue
		}
		if withDivider(&out.Sections[i].ContentHTML) {
			dividers++
		}
	}
	if len(out.Sections) > 0 && out.ConclusionHTML != "" && withDivider(&out.ConclusionHTML) {
		dividers++
	}

	out.Assemble()
	stats := Stats(out.FullHTML)

	trail.Logf("normalized %d markdown remnants", markdownBlocks)
	trail.Logf("emphasized %d keywords, italicized %d loanwords", bolded, italicized)
	trail.Logf("added %d callouts and %d dividers", calloutCount, dividers)
	trail.Logf("stats: bold=%d italic=%d tables=%d lists=%d blockquotes=%d headings=%d",
		stats.Bold, stats.Italic, stats.Tables, stats.Lists, stats.Blockquotes, stats.Headings)

	return Result{Document: out, Stats: stats, Log: trail.Lines()}
}

func withDivider(s *string) bool {
	if strings.HasPrefix(strings.TrimSpace(*s), Divider) {
		return false
	}
	*s = Divider + "\n" + strings.TrimSpace(*s)
	return true
}

// Stats counts rich elements in html
func Stats(html string) model.FormatStats {
	return model.FormatStats{
		Bold:        htmltext.CountElements(html, "strong", "b"),
		Italic:      htmltext.CountElements(html, "em", "i"),
		Tables:      htmltext.CountElements(html, "table"),
		Lists:       htmltext.CountElements(html, "ul", "ol"),
		Blockquotes: htmltext.CountElements(html, "blockquote"),
		Headings:    htmltext.CountElements(html, "h2", "h3", "h4", "h5", "h6"),
		Dividers:    strings.Count(html, `class="section-divider"`),
		Callouts:    strings.Count(html, `class="callout `),
	}
}
