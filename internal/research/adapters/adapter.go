// Package adapters pulls the main readable text out of fetched pages,
// with site-specific adapters tried before the generic one.
package adapters

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content is what an adapter extracts from one page
type Content struct {
	Title    string
	Text     string   // Main text, one block per line
	Headings []string // h1-h3 inside the main content
}

// Adapter defines the interface for site-specific extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL
	CanHandle(rawURL string) bool

	// Extract pulls the main content out of the parsed document
	Extract(doc *goquery.Document, rawURL string) Content
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewWikipediaAdapter())
	registry.generic = NewGenericAdapter()
	return registry
}

// Register registers a new adapter ahead of the generic fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL
func (r *Registry) FindAdapter(rawURL string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(rawURL) {
			return adapter
		}
	}
	return r.generic
}

// Extract parses rawHTML and runs the matching adapter. If a specific
// adapter finds nothing, the generic adapter gets a second try.
func (r *Registry) Extract(rawHTML, rawURL string) (Content, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Content{}, "", fmt.Errorf("parse html: %w", err)
	}

	adapter := r.FindAdapter(rawURL)
	content := adapter.Extract(doc, rawURL)
	if strings.TrimSpace(content.Text) == "" && adapter != r.generic {
		adapter = r.generic
		content = adapter.Extract(doc, rawURL)
	}
	return content, adapter.Name(), nil
}

// noiseSelector matches page furniture that never holds article text
const noiseSelector = "script, style, nav, footer, header, aside, form, iframe, noscript, svg, " +
	".sidebar, #sidebar, .ad, .ads, .advertisement, .popup, .modal, .cookie-banner, .share, .related-posts, .comments"

// blockSelector matches elements whose text forms one block
const blockSelector = "p, h1, h2, h3, h4, li, td, th, blockquote, pre"

// collectBlocks returns the trimmed, whitespace-collapsed text of every
// block element under sel, skipping blocks nested in another block
func collectBlocks(sel *goquery.Selection) []string {
	var blocks []string
	sel.Find(blockSelector).Each(func(_ int, item *goquery.Selection) {
		if item.ParentsFiltered("p, li, td, th, blockquote").Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(item.Text()), " ")
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

func collectHeadings(sel *goquery.Selection) []string {
	var headings []string
	sel.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		text := strings.Join(strings.Fields(h.Text()), " ")
		if text != "" && len(text) < 120 {
			headings = append(headings, text)
		}
	})
	return headings
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := strings.TrimSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
