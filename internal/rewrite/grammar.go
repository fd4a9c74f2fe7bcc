package rewrite

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

var (
	multiSpace     = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforeP   = regexp.MustCompile(`[ \t]+([,.;:!?])`)
	missingSpace   = regexp.MustCompile(`([,;!?])(\pL)`)
	sentenceStart  = regexp.MustCompile(`([.!?]\s+)(\p{Ll})`)
	wordWithSpaces = regexp.MustCompile(`\S+`)
)

// grammar fixes mechanical issues in text runs: repeated whitespace and
// words, punctuation spacing, capitals after sentence ends and at the start
// of a block, and brand names split apart. Block-initial capitals apply to
// paragraphs and list items only.
func grammar(doc, brand string) string {
	brandSplit := brandSplitPattern(brand)
	tokens := htmltext.Tokenize(doc)

	var stack htmltext.Stack
	blockStart := true
	for i := range tokens {
		t := &tokens[i]
		if t.Kind == htmltext.Tag {
			stack.Update(*t)
			if htmltext.IsBlock(t.Name) {
				blockStart = true
			}
			continue
		}
		if stack.Inside("a", "script", "style", "pre", "code") {
			blockStart = false
			continue
		}

		// Entities are decoded first so their ; and # never look like prose
		s, escaped := t.Raw, strings.Contains(t.Raw, "&")
		if escaped {
			s = html.UnescapeString(s)
		}
		if brandSplit != nil {
			s = brandSplit.ReplaceAllString(s, brand)
		}
		s = multiSpace.ReplaceAllString(s, " ")
		s = spaceBeforeP.ReplaceAllString(s, "$1")
		s = missingSpace.ReplaceAllString(s, "$1 $2")
		s = dedupeWords(s)
		s = sentenceStart.ReplaceAllStringFunc(s, func(m string) string {
			r, size := utf8.DecodeLastRuneInString(m)
			return m[:len(m)-size] + string(unicode.ToUpper(r))
		})
		if blockStart && strings.TrimSpace(s) != "" {
			if stack.Inside("p", "li") {
				s = capitalizeFirst(s)
			}
			blockStart = false
		}
		if escaped {
			s = htmltext.Escape(s)
		}
		t.Raw = s
	}

	return htmltext.Render(tokens)
}

// dedupeWords drops a word that immediately repeats the previous one
func dedupeWords(s string) string {
	locs := wordWithSpaces.FindAllStringIndex(s, -1)
	if len(locs) < 2 {
		return s
	}

	var b strings.Builder
	last := 0
	prev := ""
	for _, l := range locs {
		w := s[l[0]:l[1]]
		key := strings.ToLower(w)
		if key == prev && isAlphaWord(w) && strings.TrimSpace(s[last:l[0]]) == "" {
			last = l[1]
			continue
		}
		b.WriteString(s[last:l[1]])
		last = l[1]
		prev = key
	}
	b.WriteString(s[last:])
	return b.String()
}

func isAlphaWord(w string) bool {
	if utf8.RuneCountInString(w) < 2 {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsLower(r) {
			return s
		}
		return s[:i] + string(unicode.ToUpper(r)) + s[i+utf8.RuneLen(r):]
	}
	return s
}

// brandSplitPattern matches a dotted brand broken by stray spaces, such as
// "Sekali . id" or "Sekali. id"
func brandSplitPattern(brand string) *regexp.Regexp {
	dot := strings.Index(brand, ".")
	if dot <= 0 || dot == len(brand)-1 {
		return nil
	}
	left, right := regexp.QuoteMeta(brand[:dot]), regexp.QuoteMeta(brand[dot+1:])
	return regexp.MustCompile(`(?i)\b` + left + `(?:\s+\.\s*|\s*\.\s+)` + right + `\b`)
}
