// Package score audits finished article HTML for SEO and readability.
// Every function here is a pure function of its inputs.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// Metric names used as keys of the details maps
const (
	MetricWordCount        = "word_count"
	MetricKeywordDensity   = "keyword_density"
	MetricHeadings         = "headings"
	MetricEmphasis         = "emphasis"
	MetricRichElements     = "rich_elements"
	MetricLinks            = "links"
	MetricMetaCompleteness = "meta_completeness"

	MetricSentenceLength  = "sentence_length"
	MetricParagraphLength = "paragraph_length"
	MetricStructure       = "structure"
)

// SEO weights, summing to 100
const (
	weightWordCount = 20
	weightDensity   = 20
	weightHeadings  = 15
	weightEmphasis  = 10
	weightRich      = 10
	weightLinks     = 15
	weightMeta      = 10
)

// TargetWords is the length that earns full word-count marks
const TargetWords = 1000

// metaCompleteness is fixed: title and meta are always produced by the outline stage
const metaCompleteness = 90

const readabilityBase = 70

// Scorer calculates the SEO and readability audits
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Audit runs both audits
func (s *Scorer) Audit(html, topic string) model.ScoreReport {
	return model.ScoreReport{
		SEO:         s.SEO(html, topic),
		Readability: s.Readability(html),
	}
}

// SEO calculates the weighted SEO score of html for topic
func (s *Scorer) SEO(html, topic string) model.SEOScore {
	text := htmltext.StripTags(html)
	words := htmltext.CountWords(text)

	details := map[string]model.MetricScore{
		MetricWordCount:        s.calculateWordCount(words),
		MetricKeywordDensity:   s.calculateDensity(text, words, topic),
		MetricHeadings:         s.calculateHeadings(html),
		MetricEmphasis:         s.calculateEmphasis(html),
		MetricRichElements:     s.calculateRichElements(html),
		MetricLinks:            s.calculateLinks(html),
		MetricMetaCompleteness: {Score: metaCompleteness, Weight: weightMeta, Value: metaCompleteness, Note: "Title and meta description present"},
	}

	weighted, total := 0, 0
	for _, m := range details {
		weighted += m.Score * m.Weight
		total += m.Weight
	}

	return model.SEOScore{
		Score:   clamp(int(math.Round(float64(weighted) / float64(total)))),
		Details: details,
	}
}

// calculateWordCount scores length against TargetWords
func (s *Scorer) calculateWordCount(words int) model.MetricScore {
	score := clamp(words * 100 / TargetWords)
	return model.MetricScore{
		Score:  score,
		Weight: weightWordCount,
		Value:  float64(words),
		Note:   fmt.Sprintf("%d words (target %d)", words, TargetWords),
		Data: map[string]interface{}{
			"formula": "min(words / target * 100, 100)",
		},
	}
}

// calculateDensity scores how often the topic keywords appear; 1-3% is ideal
func (s *Scorer) calculateDensity(text string, words int, topic string) model.MetricScore {
	keywords := model.TopicKeywords(topic)
	occurrences := 0
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		occurrences += len(wordPattern(kw).FindAllStringIndex(lower, -1))
	}

	density := 0.0
	if words > 0 {
		density = float64(occurrences) / float64(words) * 100
	}

	var score int
	switch {
	case density < 1:
		score = int(density * 100)
	case density <= 3:
		score = 100
	default:
		score = 100 - int((density-3)*25)
	}

	return model.MetricScore{
		Score:  clamp(score),
		Weight: weightDensity,
		Value:  math.Round(density*100) / 100,
		Note:   fmt.Sprintf("Keyword density %.2f%% (ideal 1-3%%)", density),
		Data: map[string]interface{}{
			"keywords":    keywords,
			"occurrences": occurrences,
		},
	}
}

// calculateHeadings scores the number of top-level sections; 4-8 is ideal
func (s *Scorer) calculateHeadings(html string) model.MetricScore {
	n := htmltext.CountElements(html, "h2")

	var score int
	switch {
	case n < 4:
		score = n * 25
	case n <= 8:
		score = 100
	default:
		score = max(40, 100-(n-8)*10)
	}

	return model.MetricScore{Score: score, Weight: weightHeadings, Value: float64(n), Note: fmt.Sprintf("%d sections (ideal 4-8)", n)}
}

// calculateEmphasis scores bold and italic spans; 5-20 is ideal
func (s *Scorer) calculateEmphasis(html string) model.MetricScore {
	n := htmltext.CountElements(html, "strong", "b", "em", "i")

	var score int
	switch {
	case n < 5:
		score = n * 20
	case n <= 20:
		score = 100
	default:
		score = max(40, 100-(n-20)*5)
	}

	return model.MetricScore{Score: score, Weight: weightEmphasis, Value: float64(n), Note: fmt.Sprintf("%d emphasized spans (ideal 5-20)", n)}
}

// calculateRichElements awards half marks each for a table and a list
func (s *Scorer) calculateRichElements(html string) model.MetricScore {
	tables := htmltext.CountElements(html, "table")
	lists := htmltext.CountElements(html, "ul", "ol")

	score := 0
	if tables > 0 {
		score += 50
	}
	if lists > 0 {
		score += 50
	}

	return model.MetricScore{
		Score:  score,
		Weight: weightRich,
		Value:  float64(tables + lists),
		Note:   fmt.Sprintf("%d tables, %d lists", tables, lists),
		Data:   map[string]interface{}{"tables": tables, "lists": lists},
	}
}

var hrefPattern = regexp.MustCompile(`(?i)<a\s[^>]*href=`)

// calculateLinks scores internal and outbound links; three or more is full marks
func (s *Scorer) calculateLinks(html string) model.MetricScore {
	n := len(hrefPattern.FindAllStringIndex(html, -1))

	var score int
	switch n {
	case 0:
		score = 0
	case 1:
		score = 40
	case 2:
		score = 70
	default:
		score = 100
	}

	return model.MetricScore{Score: score, Weight: weightLinks, Value: float64(n), Note: fmt.Sprintf("%d links", n)}
}

// Readability scores sentence length, paragraph length and structural variety
func (s *Scorer) Readability(html string) model.ReadabilityScore {
	text := htmltext.StripTags(html)
	sentences := splitSentences(text)
	paragraphs := paragraphWordCounts(html)

	avgSentence := average(sentenceWordCounts(sentences))
	avgParagraph := average(paragraphs)

	sentenceAdj := sentenceAdjustment(avgSentence)
	paragraphAdj := paragraphAdjustment(avgParagraph)
	structure := 0
	if htmltext.CountElements(html, "h2", "h3") > 0 {
		structure += 5
	}
	if htmltext.CountElements(html, "ul", "ol") > 0 {
		structure += 5
	}
	if htmltext.CountElements(html, "table") > 0 {
		structure += 5
	}

	score := clamp(readabilityBase + sentenceAdj + paragraphAdj + structure)
	if len(sentences) == 0 {
		score = 0
	}

	return model.ReadabilityScore{
		Score:             score,
		AvgSentenceWords:  math.Round(avgSentence*10) / 10,
		AvgParagraphWords: math.Round(avgParagraph*10) / 10,
		Sentences:         len(sentences),
		Paragraphs:        len(paragraphs),
		Details: map[string]model.MetricScore{
			MetricSentenceLength:  {Score: sentenceAdj, Value: avgSentence, Note: "Penalized above 20-25 words per sentence"},
			MetricParagraphLength: {Score: paragraphAdj, Value: avgParagraph, Note: "Penalized above 100-150 words per paragraph"},
			MetricStructure:       {Score: structure, Value: float64(structure), Note: "Bonus for headings, lists and tables"},
		},
	}
}

func sentenceAdjustment(avg float64) int {
	switch {
	case avg == 0:
		return 0
	case avg <= 15:
		return 15
	case avg <= 20:
		return 10
	case avg <= 25:
		return 0
	default:
		return -min(30, int((avg-25)*2))
	}
}

func paragraphAdjustment(avg float64) int {
	switch {
	case avg == 0:
		return 0
	case avg <= 60:
		return 10
	case avg <= 100:
		return 5
	case avg <= 150:
		return -5
	default:
		return -15
	}
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+(\s+|$)`)

func splitSentences(text string) []string {
	var out []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

func sentenceWordCounts(sentences []string) []int {
	counts := make([]int, len(sentences))
	for i, s := range sentences {
		counts[i] = htmltext.CountWords(s)
	}
	return counts
}

// paragraphWordCounts returns the word count of every non-empty <p>
func paragraphWordCounts(html string) []int {
	var counts []int
	var b strings.Builder
	depth := 0

	for _, t := range htmltext.Tokenize(html) {
		switch {
		case t.Kind == htmltext.Tag && t.Name == "p" && !t.Closing:
			depth++
		case t.Kind == htmltext.Tag && t.Name == "p" && t.Closing && depth > 0:
			depth--
			if depth == 0 {
				if n := htmltext.WordCount(b.String()); n > 0 {
					counts = append(counts, n)
				}
				b.Reset()
			}
		case depth > 0:
			b.WriteString(t.Raw)
		}
	}
	return counts
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func wordPattern(w string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(w)) + `\b`)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
