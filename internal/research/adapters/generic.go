package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GenericAdapter is the fallback adapter for unknown sites
type GenericAdapter struct {
	mainSelectors []string
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{
		mainSelectors: []string{
			"article", "main", ".entry-content", ".post-content", ".article-body",
			".post-body", "[role='main']", ".content", "#content",
		},
	}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(rawURL string) bool {
	return true
}

// Extract takes the first main-content container that yields text, or the
// whole body when none does
func (a *GenericAdapter) Extract(doc *goquery.Document, rawURL string) Content {
	title := pageTitle(doc)
	doc.Find(noiseSelector).Remove()

	for _, selector := range a.mainSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if blocks := collectBlocks(sel); len(blocks) > 0 {
			return Content{Title: title, Text: strings.Join(blocks, "\n"), Headings: collectHeadings(sel)}
		}
	}

	body := doc.Find("body")
	return Content{Title: title, Text: strings.Join(collectBlocks(body), "\n"), Headings: collectHeadings(body)}
}
