package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = []Article{
	{ID: "1", Title: "Pantai Sanur Bali", URL: "https://sekali.id/pantai-sanur-bali", CategoryID: "pantai"},
	{ID: "2", Title: "Kuliner Malam Denpasar", URL: "https://sekali.id/kuliner-malam-denpasar", CategoryID: "kuliner"},
	{ID: "3", Title: "Tegallalang Rice Terrace", URL: "https://sekali.id/tegallalang-ubud", CategoryID: "alam"},
}

var categories = []Category{{ID: "pantai", Name: "Pantai"}, {ID: "kuliner", Name: "Kuliner"}}

func exerciseIndex(t *testing.T, idx ContentSearch) {
	ctx := context.Background()

	got, err := idx.Search(ctx, "bali")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = idx.Search(ctx, "UBUD")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got, err = idx.Search(ctx, "kuliner malam")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = idx.Search(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = idx.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	cats, err := idx.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestMemoryIndex(t *testing.T) {
	exerciseIndex(t, NewMemoryIndex(fixtures, categories))
}

func TestSQLiteIndex(t *testing.T) {
	ctx := context.Background()
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "content", "index.db"))
	require.NoError(t, err)
	defer idx.Close()

	for _, a := range fixtures {
		require.NoError(t, idx.AddArticle(ctx, a))
	}
	for _, c := range categories {
		require.NoError(t, idx.AddCategory(ctx, c))
	}

	exerciseIndex(t, idx)

	// Upsert keeps one row per ID
	require.NoError(t, idx.AddArticle(ctx, Article{ID: "1", Title: "Pantai Sanur Bali Terbaru", URL: fixtures[0].URL}))
	all, err := idx.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryIndex_Upsert(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex(nil, nil)
	require.NoError(t, idx.AddArticle(ctx, Article{ID: "a", Title: "Satu"}))
	require.NoError(t, idx.AddArticle(ctx, Article{ID: "a", Title: "Dua"}))

	got, err := idx.Search(ctx, "dua")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNop(t *testing.T) {
	got, err := Nop{}.Search(context.Background(), "x")
	assert.NoError(t, err)
	assert.Empty(t, got)
}
