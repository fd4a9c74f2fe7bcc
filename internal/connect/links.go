package connect

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// Link caps
const (
	MaxInlineLinks = 3
	MaxSeeAlso     = 5
)

// Disclaimer closes every article
const Disclaimer = `<p class="disclaimer"><em>Informasi harga dan jam buka dapat berubah sewaktu-waktu. ` +
	`Selalu periksa informasi terbaru dari pengelola sebelum berkunjung.</em></p>`

// linkFirst wraps the first occurrence of phrase in an eligible text run
// with an anchor. Headings and existing links are never eligible.
func linkFirst(html, phrase, anchorOpen string) (string, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return html, false
	}
	pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)

	tokens := htmltext.Tokenize(html)
	linked := false
	htmltext.Walk(tokens, func(tok *htmltext.Token, stack *htmltext.Stack) {
		if linked || stack.InsideHeading() || stack.Inside("a", "script", "style") {
			return
		}
		loc := pattern.FindStringIndex(tok.Raw)
		if loc == nil {
			return
		}
		tok.Raw = tok.Raw[:loc[0]] + anchorOpen + tok.Raw[loc[0]:loc[1]] + "</a>" + tok.Raw[loc[1]:]
		linked = true
	})
	if !linked {
		return html, false
	}
	return htmltext.Render(tokens), true
}

var titleSuffix = regexp.MustCompile(`\s+[|\-–]\s+.*$|\s*[:(].*$`)

// keyPhrases lists what to look for in the body for a candidate: its title
// without a subtitle, then each adjacent pair of significant title words
func keyPhrases(title string) []string {
	main := strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
	phrases := []string{}
	if main != "" {
		phrases = append(phrases, main)
	}
	words := model.TopicKeywords(main)
	for i := 0; i+1 < len(words); i++ {
		phrases = model.AppendUnique(phrases, words[i]+" "+words[i+1])
	}
	return phrases
}

// insertInlineLinks links up to MaxInlineLinks candidates into the body,
// first occurrence only, one link per candidate
func insertInlineLinks(doc *model.ArticleDocument, candidates []Candidate) []string {
	var linked []string
	for _, c := range candidates {
		if len(linked) == MaxInlineLinks {
			break
		}
		if c.URL == "" {
			continue
		}
		anchor := fmt.Sprintf(`<a href="%s">`, htmltext.Escape(c.URL))
		if linkInBody(doc, keyPhrases(c.Title), anchor) {
			linked = append(linked, c.Title)
		}
	}
	doc.Assemble()
	return linked
}

// linkInBody tries each phrase against the introduction and sections in order
func linkInBody(doc *model.ArticleDocument, phrases []string, anchor string) bool {
	for _, phrase := range phrases {
		if out, ok := linkFirst(doc.IntroductionHTML, phrase, anchor); ok {
			doc.IntroductionHTML = out
			return true
		}
		for i := range doc.Sections {
			if out, ok := linkFirst(doc.Sections[i].ContentHTML, phrase, anchor); ok {
				doc.Sections[i].ContentHTML = out
				return true
			}
		}
	}
	return false
}

// MapsURL is the external authority link for a place
func MapsURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// insertAuthorityLink links the first occurrence of anchorText to a maps
// search for topic, or appends a paragraph carrying the link
func insertAuthorityLink(doc *model.ArticleDocument, topic, anchorText string) bool {
	open := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener nofollow">`, htmltext.Escape(MapsURL(topic)))
	if linkInBody(doc, []string{anchorText, topic}, open) {
		doc.Assemble()
		return true
	}

	p := fmt.Sprintf("<p>Lihat lokasi %s%s di Google Maps</a>.</p>", open, htmltext.Escape(topic))
	if n := len(doc.Sections); n > 0 {
		doc.Sections[n-1].ContentHTML = strings.TrimSpace(doc.Sections[n-1].ContentHTML) + "\n" + p
	} else {
		doc.IntroductionHTML = strings.TrimSpace(doc.IntroductionHTML) + "\n" + p
	}
	doc.Assemble()
	return false
}

// seeAlsoBlock lists up to MaxSeeAlso candidates, or location-based
// placeholder searches on the site when there are none
func seeAlsoBlock(candidates []Candidate, location, siteURL string) (string, bool) {
	var items []string
	for _, c := range candidates {
		if len(items) == MaxSeeAlso {
			break
		}
		if c.URL == "" {
			continue
		}
		items = append(items, fmt.Sprintf(`<li><a href="%s">%s</a></li>`, htmltext.Escape(c.URL), htmltext.Escape(c.Title)))
	}

	placeholder := len(items) == 0
	if placeholder {
		for _, q := range []string{
			"Kuliner terbaik di dekat %s",
			"Penginapan murah di sekitar %s",
			"Tempat wisata populer di %s",
		} {
			text := fmt.Sprintf(q, location)
			href := strings.TrimRight(siteURL, "/") + "/?s=" + url.QueryEscape(text)
			items = append(items, fmt.Sprintf(`<li><a href="%s">%s</a></li>`, htmltext.Escape(href), htmltext.Escape(text)))
		}
	}

	return `<div class="see-also">` + "\n<h3>Baca Juga</h3>\n<ul>\n" + strings.Join(items, "\n") + "\n</ul>\n</div>", placeholder
}
