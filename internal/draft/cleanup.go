package draft

import (
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/format"
	"github.com/ppiankov/hyperion/internal/htmltext"
)

var (
	fencePattern    = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	strongPattern   = regexp.MustCompile(`\*\*([^*\n]+?)\*\*|__([^_\n]+?)__`)
	emPattern       = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*\n]*?)\*([^*\w]|$)`)
	mdHeading       = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
	leadingHeading  = regexp.MustCompile(`(?is)^\s*<h[1-3][^>]*>(.*?)</h[1-3]>`)
	blockStart      = regexp.MustCompile(`(?i)^</?(p|h[1-6]|ul|ol|li|table|thead|tbody|tfoot|tr|td|th|caption|blockquote|div|figure|hr|section|dl|dt|dd|pre)\b`)
	mdListItem      = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	mdTableRow      = regexp.MustCompile(`^\|.*\|$`)
	outerBodyTags   = regexp.MustCompile(`(?i)</?(html|body|article)[^>]*>`)
	markdownComment = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// Cleanup turns a generated or synthesized fragment into a section block:
// code fences and wrapper tags go, markdown emphasis becomes tags, a
// repeated heading at the top is dropped, bare text lines become
// paragraphs, and the block opens with <h2>heading</h2>. An empty heading
// (the introduction) gets no <h2>. Markdown list and pipe-table lines are
// rendered to HTML here so later word counts never include their markers.
func Cleanup(fragment, heading string) string {
	s := fencePattern.ReplaceAllString(fragment, "")
	s = outerBodyTags.ReplaceAllString(s, "")
	s = markdownComment.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	s = strongPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := strongPattern.FindStringSubmatch(m)
		inner := sub[1]
		if inner == "" {
			inner = sub[2]
		}
		return "<strong>" + inner + "</strong>"
	})
	s = emPattern.ReplaceAllString(s, "$1<em>$2</em>$3")

	var lines []string
	var stack htmltext.Stack
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		open := stack.Inside(containerTags...)
		for _, tok := range htmltext.Tokenize(line) {
			stack.Update(tok)
		}
		if open {
			lines = append(lines, line)
			continue
		}

		if m := mdHeading.FindStringSubmatch(line); m != nil {
			if sameHeading(m[1], heading) && len(lines) == 0 {
				continue
			}
			lines = append(lines, "<h3>"+m[1]+"</h3>")
			continue
		}
		if len(lines) == 0 && heading != "" && sameHeading(line, heading) {
			continue
		}
		switch {
		case blockStart.MatchString(line), mdListItem.MatchString(line), mdTableRow.MatchString(line):
			lines = append(lines, line)
		default:
			lines = append(lines, "<p>"+line+"</p>")
		}
	}
	body, _ := format.NormalizeMarkdown(strings.Join(lines, "\n"))

	// A leading heading tag that repeats the section heading is dropped
	if heading != "" {
		if m := leadingHeading.FindStringSubmatchIndex(body); m != nil {
			if sameHeading(htmltext.StripTags(body[m[2]:m[3]]), heading) {
				body = strings.TrimSpace(body[m[1]:])
			}
		}
	}

	if heading == "" {
		return body
	}
	return "<h2>" + htmltext.Escape(heading) + "</h2>\n" + body
}

// containerTags hold text that must not be re-wrapped when it spans lines
var containerTags = []string{
	"p", "ul", "ol", "li", "table", "blockquote", "div", "pre", "figure",
	"section", "dl", "h1", "h2", "h3", "h4", "h5", "h6",
}

func sameHeading(a, b string) bool {
	norm := func(s string) string {
		s = htmltext.StripTags(s)
		s = strings.Trim(s, " :.#*")
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return norm(a) != "" && norm(a) == norm(b)
}
