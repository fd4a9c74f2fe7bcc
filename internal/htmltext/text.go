package htmltext

import (
	"html"
	"strings"
	"unicode/utf8"
)

// StripTags removes all markup and returns the visible text. Block-level
// tags become whitespace so adjacent paragraphs never fuse into one word.
func StripTags(s string) string {
	var b strings.Builder
	var stack Stack
	for _, t := range Tokenize(s) {
		if t.Kind == Tag {
			stack.Update(t)
			if IsBlock(t.Name) {
				b.WriteByte(' ')
			}
			continue
		}
		if stack.Inside("script", "style") {
			continue
		}
		b.WriteString(t.Raw)
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

// CountWords counts whitespace-separated words in plain text
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// WordCount is CountWords(StripTags(s))
func WordCount(s string) int {
	return CountWords(StripTags(s))
}

// TextLength returns the rune length of the visible text of s
func TextLength(s string) int {
	return utf8.RuneCountInString(StripTags(s))
}

// CountElements counts opening tags with the given element name
func CountElements(s string, names ...string) int {
	count := 0
	for _, t := range Tokenize(s) {
		if t.Kind != Tag || t.Closing {
			continue
		}
		for _, n := range names {
			if t.Name == n {
				count++
				break
			}
		}
	}
	return count
}

// Escape escapes text for safe inclusion in HTML
func Escape(s string) string {
	return html.EscapeString(s)
}
