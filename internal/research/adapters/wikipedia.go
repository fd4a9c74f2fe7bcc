package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WikipediaAdapter extracts article text from Wikipedia pages
type WikipediaAdapter struct{}

// NewWikipediaAdapter creates a new Wikipedia adapter
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (a *WikipediaAdapter) CanHandle(rawURL string) bool {
	return strings.Contains(rawURL, "wikipedia.org")
}

// Extract reads the parser output, dropping citation markers, edit links,
// navigation boxes and the reference list
func (a *WikipediaAdapter) Extract(doc *goquery.Document, rawURL string) Content {
	title := strings.TrimSpace(doc.Find("#firstHeading").First().Text())
	if title == "" {
		title = pageTitle(doc)
	}

	content := doc.Find(".mw-parser-output").First()
	if content.Length() == 0 {
		content = doc.Find("#mw-content-text").First()
	}
	if content.Length() == 0 {
		return Content{Title: title}
	}

	content.Find("sup.reference, .mw-editsection, .navbox, .reflist, .references, " +
		".hatnote, .metadata, .noprint, style, script, table.sidebar").Remove()

	// Stop at the reference sections
	var blocks []string
	stop := false
	content.Children().Each(func(_ int, child *goquery.Selection) {
		if stop {
			return
		}
		if isFooterHeading(child) {
			stop = true
			return
		}
		if child.Is("p, ul, ol, h2, h3, table, div.mw-heading") {
			if child.Is("p, h2, h3, div.mw-heading") {
				if text := strings.Join(strings.Fields(child.Text()), " "); text != "" {
					blocks = append(blocks, text)
				}
				return
			}
			blocks = append(blocks, collectBlocks(child)...)
		}
	})

	return Content{Title: title, Text: strings.Join(blocks, "\n"), Headings: collectHeadings(content)}
}

var footerHeadings = []string{"references", "referensi", "see also", "lihat pula", "external links", "pranala luar", "notes", "catatan", "bibliography", "further reading"}

func isFooterHeading(s *goquery.Selection) bool {
	if !s.Is("h2, div.mw-heading") {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(s.Text()))
	for _, h := range footerHeadings {
		if strings.HasPrefix(text, h) {
			return true
		}
	}
	return false
}
