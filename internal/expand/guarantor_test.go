package expand

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
)

func shortDoc() model.ArticleDocument {
	doc := model.ArticleDocument{
		IntroductionHTML:  "<p>Pengantar singkat tentang pantai.</p>",
		ConclusionHeading: model.DefaultConclusionHeading,
		Sections: []model.ArticleSection{
			{Heading: "Harga Tiket", ContentHTML: "<h2>Harga Tiket</h2>\n<p>Tiket Rp 25.000.</p>"},
		},
		ConclusionHTML: "<h2>Kesimpulan</h2>\n<p>Selamat berlibur.</p>",
	}
	doc.Assemble()
	return doc
}

var failing = llm.BackendFunc(func(context.Context, string) (string, error) {
	return "", errors.New("provider down")
})

func TestGuarantee_AlreadyLongEnough(t *testing.T) {
	doc := model.ArticleDocument{IntroductionHTML: "<p>" + strings.Repeat("kata ", 1500) + "</p>"}
	doc.Assemble()
	require.Equal(t, 1500, doc.WordCount)

	g := NewGuarantor(model.DefaultConfig(), failing, nil)
	res := g.Guarantee(context.Background(), "Kuta Beach Bali", model.KnowledgeGraph{}, doc, 1000)

	assert.Empty(t, res.Rounds)
	assert.True(t, res.Met)
	assert.Equal(t, doc, res.Document)
}

func TestGuarantee_MonotonicAndTerminates(t *testing.T) {
	kg := model.KnowledgeGraph{
		Topic:    "Pantai Kuta",
		Entities: model.Entities{Prices: []string{"Rp 25.000"}, Locations: []string{"Bali"}},
	}
	g := NewGuarantor(model.DefaultConfig(), failing, nil)
	res := g.Guarantee(context.Background(), "Pantai Kuta", kg, shortDoc(), 100000)

	require.Len(t, res.Rounds, MaxRounds)
	assert.False(t, res.Met)
	assert.False(t, res.Rounds[0].Applied)

	prev := shortDoc().WordCount
	for _, r := range res.Rounds {
		assert.Equal(t, prev, r.WordsBefore)
		assert.GreaterOrEqual(t, r.WordsAfter, r.WordsBefore)
		prev = r.WordsAfter
	}
	for _, r := range res.Rounds[1:] {
		assert.True(t, r.Applied, r.Name)
	}

	doc := res.Document
	assert.Equal(t, htmltext.WordCount(doc.FullHTML), doc.WordCount)
	assert.True(t, doc.HasSection("FAQ"))
	assert.Contains(t, doc.FullHTML, "Harga yang tercatat adalah Rp 25.000.")
	assert.True(t, strings.HasSuffix(doc.FullHTML, doc.ConclusionHTML), "conclusion stays last")
	assert.Contains(t, strings.Join(res.Log, "\n"), "shortfall")
}

func TestGuarantee_SkipsPresentBlocks(t *testing.T) {
	doc := shortDoc()
	doc.InsertBeforeConclusion(model.ArticleSection{
		Heading:     "FAQ Pantai Kuta",
		ContentHTML: "<h2>FAQ Pantai Kuta</h2>\n<p>Tanya jawab.</p>",
	})

	g := NewGuarantor(model.DefaultConfig(), nil, nil)
	res := g.Guarantee(context.Background(), "Pantai Kuta", model.KnowledgeGraph{}, doc, 100000)

	require.Len(t, res.Rounds, MaxRounds)
	assert.Equal(t, "faq", res.Rounds[1].Name)
	assert.False(t, res.Rounds[1].Applied)
	assert.Equal(t, res.Rounds[1].WordsBefore, res.Rounds[1].WordsAfter)
}

func TestGuarantee_GenerativeRoundStopsEarly(t *testing.T) {
	body := strings.Repeat("Kalimat tambahan yang cukup panjang untuk artikel ini. ", 10)
	provider := llm.NewStaticProvider()
	provider.Default = "<h2>Kuliner Khas</h2>\n<p>" + body + "</p>\n<h2>Transportasi</h2>\n<p>" + body + "</p>"

	doc := shortDoc()
	g := NewGuarantor(model.DefaultConfig(), llm.NewChain(nil, provider), nil)
	res := g.Guarantee(context.Background(), "Pantai Kuta", model.KnowledgeGraph{}, doc, doc.WordCount+20)

	require.Len(t, res.Rounds, 1)
	assert.True(t, res.Rounds[0].Applied)
	assert.True(t, res.Met)

	secs := res.Document.Sections
	require.Len(t, secs, 3)
	assert.Equal(t, "Kuliner Khas", secs[1].Heading)
	assert.Equal(t, "Transportasi", secs[2].Heading)
	assert.Equal(t, doc.ConclusionHTML, res.Document.ConclusionHTML)
}

func TestSplitSections_LeadingText(t *testing.T) {
	secs := splitSections("Pantai Kuta", "Teks pembuka tanpa judul.\n<h2>Kesimpulan</h2><p>abaikan</p>")
	require.Len(t, secs, 1)
	assert.Equal(t, "Informasi Tambahan tentang Pantai Kuta", secs[0].Heading)
	assert.Contains(t, secs[0].ContentHTML, "<p>Teks pembuka tanpa judul.</p>")
	assert.NotContains(t, secs[0].ContentHTML, "abaikan")
}
