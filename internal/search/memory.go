package search

import (
	"context"
	"sync"
)

// MemoryIndex is an in-process ContentSearch, used by tests and by runs
// without a configured index file
type MemoryIndex struct {
	mu         sync.RWMutex
	articles   []Article
	categories []Category
}

// NewMemoryIndex creates an index holding the given articles
func NewMemoryIndex(articles []Article, categories []Category) *MemoryIndex {
	return &MemoryIndex{
		articles:   append([]Article(nil), articles...),
		categories: append([]Category(nil), categories...),
	}
}

// AddArticle adds or replaces an article by ID
func (m *MemoryIndex) AddArticle(ctx context.Context, a Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == a.ID {
			m.articles[i] = a
			return nil
		}
	}
	m.articles = append(m.articles, a)
	return nil
}

// AddCategory adds or replaces a category by ID
func (m *MemoryIndex) AddCategory(ctx context.Context, c Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == c.ID {
			m.categories[i] = c
			return nil
		}
	}
	m.categories = append(m.categories, c)
	return nil
}

// Search implements ContentSearch
func (m *MemoryIndex) Search(ctx context.Context, term string) ([]Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Article
	for _, a := range m.articles {
		if matches(a, term) {
			out = append(out, a)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out, nil
}

// ListCategories implements ContentSearch
func (m *MemoryIndex) ListCategories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Category(nil), m.categories...), nil
}
