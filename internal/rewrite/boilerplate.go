package rewrite

import (
	"regexp"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

type phraseRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// boilerplate lists generic machine-written phrases and what replaces them
var boilerplate = []phraseRule{
	{regexp.MustCompile(`(?i)\bdalam artikel ini,?\s*(kita|kami|saya)\s+akan\s+(membahas|mengulas)\b`), "Berikut ulasan"},
	{regexp.MustCompile(`(?i)\btidak dapat dipungkiri( lagi)? bahwa\s*`), ""},
	{regexp.MustCompile(`(?i)\bperlu (diingat|dicatat) bahwa\s*`), ""},
	{regexp.MustCompile(`(?i)\bsecara keseluruhan,\s*`), ""},
	{regexp.MustCompile(`(?i)\bsebagai kesimpulan,\s*`), ""},
	{regexp.MustCompile(`(?i)\bpada akhirnya,\s*`), ""},
	{regexp.MustCompile(`(?i)\btanpa basa-basi lagi,\s*`), ""},
	{regexp.MustCompile(`(?i)\bmari kita\s+`), ""},
	{regexp.MustCompile(`(?i)\bsebagai (sebuah )?(model bahasa|ai)\b[^.]*\.\s*`), ""},
	{regexp.MustCompile(`(?i)\bin conclusion,\s*`), ""},
	{regexp.MustCompile(`(?i)\bit(?:'|’)?s worth noting that\s*`), ""},
	{regexp.MustCompile(`(?i)\bin today(?:'|’)?s (fast-paced )?world,\s*`), ""},
	{regexp.MustCompile(`(?i)\bwhether you(?:'|’)?re a [^,]+ or a [^,]+,\s*`), ""},
}

// stripBoilerplate removes boilerplate phrases from text runs and reports
// how many were removed
func stripBoilerplate(html string) (string, int) {
	tokens := htmltext.Tokenize(html)
	count := 0
	htmltext.Walk(tokens, func(tok *htmltext.Token, stack *htmltext.Stack) {
		if stack.Inside("a", "script", "style") {
			return
		}
		for _, r := range boilerplate {
			if n := len(r.pattern.FindAllStringIndex(tok.Raw, -1)); n > 0 {
				count += n
				tok.Raw = r.pattern.ReplaceAllString(tok.Raw, r.replacement)
			}
		}
	})
	return htmltext.Render(tokens), count
}
