package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

func testDoc() model.ArticleDocument {
	doc := model.ArticleDocument{
		IntroductionHTML:  "<p>Selamat datang.</p>",
		ConclusionHeading: model.DefaultConclusionHeading,
		Sections: []model.ArticleSection{
			{Heading: "Pantai Kuta", ContentHTML: "<h2>Pantai Kuta</h2>\n<p>Pantai Kuta punya tiket masuk murah. Lokasi strategis, rute mudah, tips hemat, liburan seru bagi wisatawan.</p>"},
			{Heading: "Harga", ContentHTML: "<h2>Harga</h2>\n| Item | Harga |\n| Tiket | Rp 25.000 |\n- satu\n- dua"},
			{Heading: "Suasana", ContentHTML: "<h2>Suasana</h2>\n<p>Menikmati sunset di sini.</p>\n<p>Tip: datang pagi.</p>"},
		},
		ConclusionHTML: "<h2>Kesimpulan</h2>\n<p>Sunset terbaik.</p>",
	}
	doc.Assemble()
	return doc
}

func TestFormat_MarkdownRemnants(t *testing.T) {
	res := Format("Pantai Kuta", model.ContentDestination, testDoc())
	harga := res.Document.Sections[1].ContentHTML

	assert.Contains(t, harga, `<table class="article-table">`)
	assert.Contains(t, harga, "<td>Rp 25.000</td>")
	assert.Contains(t, harga, `<ul class="article-list">`)
	assert.Contains(t, harga, "<li>satu</li>")
	assert.NotContains(t, harga, "| Tiket")
}

func TestFormat_BoldLimitAndHeadings(t *testing.T) {
	res := Format("Pantai Kuta", model.ContentDestination, testDoc())
	first := res.Document.Sections[0].ContentHTML

	assert.True(t, strings.HasPrefix(first, "<h2>Pantai Kuta</h2>"), "headings are never emphasized")
	assert.Equal(t, MaxBoldPerSection, htmltext.CountElements(first, "strong"))
	assert.Contains(t, first, "<strong>Pantai Kuta</strong> punya <strong>tiket masuk</strong>")
}

func TestWrapTerms_NoDoubleWrap(t *testing.T) {
	terms := compileTerms(Keywords("Pantai Kuta", model.ContentDestination))
	out, n := wrapTerms(`<p><strong>Pantai Kuta</strong> dan <a href="/x">Pantai Kuta</a></p>`, terms, "strong", 4, map[string]bool{}, "strong", "b")

	assert.Equal(t, 0, n)
	assert.Equal(t, 1, htmltext.CountElements(out, "strong"))
}

func TestFormat_ItalicOncePerArticle(t *testing.T) {
	res := Format("Pantai Kuta", model.ContentDestination, testDoc())
	assert.Equal(t, 1, strings.Count(res.Document.FullHTML, "<em>"))
	assert.Contains(t, res.Document.FullHTML, "<em>sunset</em>")
}

func TestFormat_CalloutsAndDividers(t *testing.T) {
	in := testDoc()
	res := Format("Pantai Kuta", model.ContentDestination, in)
	doc := res.Document

	assert.Contains(t, doc.Sections[2].ContentHTML, `<blockquote class="callout callout-tip"><p>Tip: datang pagi.</p></blockquote>`)
	assert.False(t, strings.HasPrefix(doc.Sections[0].ContentHTML, Divider))
	assert.True(t, strings.HasPrefix(doc.Sections[1].ContentHTML, Divider))
	assert.True(t, strings.HasPrefix(doc.ConclusionHTML, Divider))

	require.Equal(t, 3, res.Stats.Dividers)
	assert.Equal(t, 1, res.Stats.Callouts)
	assert.Equal(t, 1, res.Stats.Tables)
	assert.Equal(t, 1, res.Stats.Lists)
	assert.Equal(t, 4, res.Stats.Headings)
	assert.Equal(t, htmltext.WordCount(doc.FullHTML), doc.WordCount)

	assert.Equal(t, testDoc(), in, "input is not modified")
}

func TestCallouts_Idempotent(t *testing.T) {
	once, n := callouts("<p>Catatan: bawa topi.</p>")
	require.Equal(t, 1, n)
	assert.Contains(t, once, "callout-note")

	twice, n := callouts(once)
	assert.Equal(t, 0, n)
	assert.Equal(t, once, twice)
}

func TestKeywords(t *testing.T) {
	kws := Keywords("Wisata Pantai Kuta Bali", model.ContentFood)
	require.NotEmpty(t, kws)
	assert.Equal(t, "Wisata Pantai Kuta Bali", kws[0])
	assert.Contains(t, kws, "Pantai")
	assert.Contains(t, kws, "menu andalan")
	assert.NotContains(t, kws, "Wisata")
}
