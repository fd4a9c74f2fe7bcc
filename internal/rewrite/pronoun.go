package rewrite

import (
	"regexp"

	"github.com/ppiankov/hyperion/internal/htmltext"
)

var firstPerson = regexp.MustCompile(`(?i)\b(saya|aku|kami|kita)\b`)

// replacePronouns swaps first-person pronouns for the brand name outside
// links and headings
func replacePronouns(html, brand string) (string, int) {
	if brand == "" {
		return html, 0
	}
	tokens := htmltext.Tokenize(html)
	count := 0
	htmltext.Walk(tokens, func(tok *htmltext.Token, stack *htmltext.Stack) {
		if stack.InsideHeading() || stack.Inside("a", "script", "style") {
			return
		}
		if n := len(firstPerson.FindAllStringIndex(tok.Raw, -1)); n > 0 {
			count += n
			tok.Raw = firstPerson.ReplaceAllLiteralString(tok.Raw, brand)
		}
	})
	return htmltext.Render(tokens), count
}
