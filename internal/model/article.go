package model

import (
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

// DefaultConclusionHeading is the <h2> that opens the conclusion
const DefaultConclusionHeading = "Kesimpulan"

// ArticleSection is one <h2> block of the article body
type ArticleSection struct {
	Heading     string `json:"heading"`
	ContentHTML string `json:"content_html"` // Starts with the <h2> element, after an optional divider
}

// ArticleDocument is the article as it moves through the later stages.
// WordCount is derived from FullHTML and must be refreshed through
// Assemble or SetFullHTML after every mutation.
type ArticleDocument struct {
	IntroductionHTML  string           `json:"introduction_html"`
	Sections          []ArticleSection `json:"sections"`
	ConclusionHeading string           `json:"conclusion_heading,omitempty"`
	ConclusionHTML    string           `json:"conclusion_html"`
	FullHTML          string           `json:"full_html"`
	WordCount         int              `json:"word_count"`
}

// Assemble rebuilds FullHTML from the parts and recounts words
func (d *ArticleDocument) Assemble() {
	parts := make([]string, 0, len(d.Sections)+2)
	if s := strings.TrimSpace(d.IntroductionHTML); s != "" {
		parts = append(parts, s)
	}
	for _, sec := range d.Sections {
		if s := strings.TrimSpace(sec.ContentHTML); s != "" {
			parts = append(parts, s)
		}
	}
	if s := strings.TrimSpace(d.ConclusionHTML); s != "" {
		parts = append(parts, s)
	}
	d.FullHTML = strings.Join(parts, "\n\n")
	d.WordCount = htmltext.WordCount(d.FullHTML)
}

// SetFullHTML replaces the whole article, re-splits it into parts and
// recounts words
func (d *ArticleDocument) SetFullHTML(html string) {
	parsed := ParseArticle(html, d.ConclusionHeading)
	*d = parsed
}

// InsertBeforeConclusion adds a section after the last body section
func (d *ArticleDocument) InsertBeforeConclusion(sec ArticleSection) {
	d.Sections = append(d.Sections, sec)
	d.Assemble()
}

// HasSection reports whether any section heading contains one of the
// given fragments (case-insensitive)
func (d ArticleDocument) HasSection(fragments ...string) bool {
	for _, sec := range d.Sections {
		h := strings.ToLower(sec.Heading)
		for _, f := range fragments {
			if strings.Contains(h, strings.ToLower(f)) {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy so a stage can mutate without aliasing its input
func (d ArticleDocument) Clone() ArticleDocument {
	out := d
	out.Sections = append([]ArticleSection(nil), d.Sections...)
	return out
}

// ParseArticle splits an HTML article at its <h2> elements. Content before
// the first <h2> is the introduction; the last section whose heading equals
// conclusionHeading (case-insensitive) and everything after it is the
// conclusion. FullHTML is kept byte-for-byte.
func ParseArticle(html, conclusionHeading string) ArticleDocument {
	doc := ArticleDocument{ConclusionHeading: conclusionHeading, FullHTML: html}
	doc.WordCount = htmltext.WordCount(html)

	tokens := htmltext.Tokenize(html)
	var chunks []string
	var headings []string
	var b strings.Builder
	var heading strings.Builder
	inH2 := false

	for _, t := range tokens {
		if t.Kind == htmltext.Tag && t.Name == "h2" && !t.Closing {
			if inH2 {
				headings = append(headings, htmltext.StripTags(heading.String()))
			}
			chunks = append(chunks, b.String())
			b.Reset()
			heading.Reset()
			inH2 = true
		}
		if t.Kind == htmltext.Tag && t.Name == "h2" && t.Closing && inH2 {
			inH2 = false
			headings = append(headings, htmltext.StripTags(heading.String()))
		}
		if inH2 && t.Kind == htmltext.Text {
			heading.WriteString(t.Raw)
		}
		b.WriteString(t.Raw)
	}
	if inH2 {
		headings = append(headings, htmltext.StripTags(heading.String()))
	}
	chunks = append(chunks, b.String())

	doc.IntroductionHTML = strings.TrimSpace(chunks[0])
	body := chunks[1:]

	conclusionAt := -1
	if conclusionHeading != "" {
		for i := len(headings) - 1; i >= 0; i-- {
			if strings.EqualFold(headings[i], conclusionHeading) {
				conclusionAt = i
				break
			}
		}
	}

	for i, chunk := range body {
		if conclusionAt >= 0 && i >= conclusionAt {
			doc.ConclusionHTML += chunk
			continue
		}
		doc.Sections = append(doc.Sections, ArticleSection{
			Heading:     headings[i],
			ContentHTML: strings.TrimSpace(chunk),
		})
	}
	doc.ConclusionHTML = strings.TrimSpace(doc.ConclusionHTML)

	return doc
}
