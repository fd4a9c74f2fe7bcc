// Package search looks up already-published articles so new articles can
// link to them.
package search

import (
	"context"
	"strings"
)

// Article is one published article
type Article struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	CategoryID string `json:"category_id,omitempty"`
}

// Category is one published category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContentSearch is the content-search backend
type ContentSearch interface {
	// Search returns articles whose title or URL contains term (case-insensitive)
	Search(ctx context.Context, term string) ([]Article, error)

	// ListCategories returns every category
	ListCategories(ctx context.Context) ([]Category, error)
}

// MaxResults caps a single Search call
const MaxResults = 20

// Nop is a ContentSearch with no content
type Nop struct{}

// Search implements ContentSearch
func (Nop) Search(context.Context, string) ([]Article, error) { return nil, nil }

// ListCategories implements ContentSearch
func (Nop) ListCategories(context.Context) ([]Category, error) { return nil, nil }

func matches(a Article, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(a.Title), term) ||
		strings.Contains(strings.ToLower(a.URL), strings.ReplaceAll(term, " ", "-"))
}
