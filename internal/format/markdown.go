package format

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

var (
	mdHeadingLine  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	mdListLine     = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+\S`)
	mdTableLine    = regexp.MustCompile(`^\|.*\|$`)
	tableDelimiter = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)
	inlineStrong   = regexp.MustCompile(`\*\*([^*\n]+?)\*\*|__([^_\n]+?)__`)
	inlineEm       = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*\n]*?)\*([^*\w]|$)`)
)

// NormalizeMarkdown converts markdown remnants to HTML and reports how
// many it converted. Runs of block
// remnant lines (headings, list items, pipe tables) are rendered with
// goldmark; headings are demoted to h3 so the section structure stays
// intact. Inline emphasis markers elsewhere become tags.
func NormalizeMarkdown(s string) (string, int) {
	lines := strings.Split(s, "\n")
	var out []string
	var run []string
	converted := 0

	flush := func() {
		if len(run) == 0 {
			return
		}
		if mdTableLine.MatchString(run[0]) && (len(run) < 2 || !tableDelimiter.MatchString(run[1])) {
			run = append(run[:1], append([]string{delimiterFor(run[0])}, run[1:]...)...)
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(strings.Join(run, "\n")), &buf); err != nil {
			out = append(out, run...)
		} else {
			out = append(out, strings.TrimSpace(buf.String()))
			converted++
		}
		run = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := mdHeadingLine.FindStringSubmatch(trimmed); m != nil {
			flush()
			run = append(run, "### "+m[2])
			flush()
			continue
		}
		if mdListLine.MatchString(trimmed) || mdTableLine.MatchString(trimmed) {
			// A table needs its rows contiguous; a list tolerates a break
			if len(run) > 0 && mdTableLine.MatchString(trimmed) != mdTableLine.MatchString(run[len(run)-1]) {
				flush()
			}
			run = append(run, trimmed)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	result := strings.Join(out, "\n")
	result = inlineStrong.ReplaceAllStringFunc(result, func(m string) string {
		sub := inlineStrong.FindStringSubmatch(m)
		inner := sub[1]
		if inner == "" {
			inner = sub[2]
		}
		converted++
		return "<strong>" + inner + "</strong>"
	})
	result = inlineEm.ReplaceAllString(result, "$1<em>$2</em>$3")

	return result, converted
}

// delimiterFor builds the GFM delimiter row matching a header row
func delimiterFor(header string) string {
	cells := strings.Count(strings.Trim(header, "|"), "|") + 1
	return "|" + strings.Repeat("---|", cells)
}
