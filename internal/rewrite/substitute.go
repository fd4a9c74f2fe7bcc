package rewrite

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

// synonyms is the curated substitution table
var synonyms = map[string][]string{
	"memiliki":    {"mempunyai"},
	"indah":       {"cantik", "elok"},
	"menarik":     {"memikat"},
	"sangat":      {"amat"},
	"berbagai":    {"beragam", "aneka"},
	"mengunjungi": {"mendatangi"},
	"menikmati":   {"merasakan"},
	"terkenal":    {"populer", "tersohor"},
	"cocok":       {"pas", "sesuai"},
	"biasanya":    {"umumnya"},
	"suasana":     {"atmosfer"},
	"pengunjung":  {"wisatawan"},
	"mudah":       {"gampang"},
	"melihat":     {"menyaksikan"},
	"tersedia":    {"disediakan"},
	"nyaman":      {"menyenangkan"},
	"ramai":       {"padat"},
	"luas":        {"lapang"},
	"segar":       {"sejuk"},
	"selain itu":  {"di samping itu"},
}

type synonymEntry struct {
	word         string
	replacements []string
	pattern      *regexp.Regexp
}

var synonymTable = buildSynonymTable()

func buildSynonymTable() []synonymEntry {
	words := make([]string, 0, len(synonyms))
	for w := range synonyms {
		words = append(words, w)
	}
	sort.Strings(words)

	out := make([]synonymEntry, 0, len(words))
	for _, w := range words {
		out = append(out, synonymEntry{
			word:         w,
			replacements: synonyms[w],
			pattern:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	return out
}

// Substituter performs the protected synonym pass
type Substituter struct {
	Protected       *ProtectedTermSet
	Intensity       float64 // Per-occurrence trigger probability
	ProtectedWindow int     // Bytes of clearance required around protected terms
	NumericWindow   int     // Bytes of clearance required around numbers and currency
	Rand            *rand.Rand
}

// Substitution records one replacement, with offsets into the block text
// it was made in
type Substitution struct {
	Original    string
	Replacement string
	Span        Span
}

type edit struct {
	start, end int
	text       string
}

// Apply rewrites text runs of html. Tags are never touched; text inside
// headings and links is left alone. Distances are measured over the whole
// block, so a protected term in a neighbouring run still counts. Each
// synonym entry replaces at most one occurrence per run.
func (s *Substituter) Apply(html string) (string, []Substitution) {
	if s.Rand == nil || s.Intensity <= 0 {
		return html, nil
	}

	tokens := htmltext.Tokenize(html)
	skip := skippedRuns(tokens)
	var done []Substitution

	for _, block := range htmltext.Blocks(tokens) {
		var text strings.Builder
		offsets := make([]int, len(block))
		for i, idx := range block {
			offsets[i] = text.Len()
			text.WriteString(tokens[idx].Raw)
		}
		blockText := text.String()
		protected := s.Protected.Find(blockText)
		numeric := findNumeric(blockText)

		for i, idx := range block {
			if skip[idx] {
				continue
			}
			run := tokens[idx].Raw
			var edits []edit

			for _, entry := range synonymTable {
				for _, loc := range entry.pattern.FindAllStringIndex(run, -1) {
					if s.Rand.Float64() >= s.Intensity {
						continue
					}
					span := Span{Start: offsets[i] + loc[0], End: offsets[i] + loc[1]}
					if near(span, protected, s.ProtectedWindow) || near(span, numeric, s.NumericWindow) {
						continue
					}
					original := run[loc[0]:loc[1]]
					replacement := matchCase(original, entry.replacements[s.Rand.Intn(len(entry.replacements))])
					edits = append(edits, edit{start: loc[0], end: loc[1], text: replacement})
					done = append(done, Substitution{Original: original, Replacement: replacement, Span: span})
					break
				}
			}

			tokens[idx].Raw = applyEdits(run, edits)
		}
	}

	return htmltext.Render(tokens), done
}

// skippedRuns marks text tokens inside headings and links
func skippedRuns(tokens []htmltext.Token) map[int]bool {
	skip := make(map[int]bool)
	var stack htmltext.Stack
	for i, t := range tokens {
		if t.Kind == htmltext.Tag {
			stack.Update(t)
			continue
		}
		if stack.InsideHeading() || stack.Inside("a", "script", "style") {
			skip[i] = true
		}
	}
	return skip
}

// applyEdits applies non-overlapping edits; on overlap the earlier start wins
func applyEdits(s string, edits []edit) string {
	if len(edits) == 0 {
		return s
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(s[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// matchCase capitalizes replacement when original starts with a capital
func matchCase(original, replacement string) string {
	r, _ := utf8.DecodeRuneInString(original)
	if !unicode.IsUpper(r) {
		return replacement
	}
	first, size := utf8.DecodeRuneInString(replacement)
	return string(unicode.ToUpper(first)) + replacement[size:]
}
