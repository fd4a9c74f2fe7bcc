package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hyperion/internal/format"
	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
)

func testGraph() model.KnowledgeGraph {
	return model.KnowledgeGraph{
		Topic:       "Pantai Kuta Bali",
		ContentType: model.ContentDestination,
		Entities: model.Entities{
			Prices:       []string{"Rp 25.000"},
			OpeningHours: []string{"08.00 - 17.00 WITA"},
			Locations:    []string{"Kabupaten Badung", "Bali"},
		},
		SourceDocuments: []model.SourceDocument{{
			SourceLabel: "example.com",
			ExcerptText: "Harga tiket masuk Pantai Kuta adalah Rp 25.000 per orang. Pantainya berpasir putih dan luas.",
		}},
		Enrichment: map[model.EnrichmentField]string{
			model.FieldSummary: "Pantai Kuta adalah pantai ikonik di Bali",
			model.FieldPricing: "Tiket masuk terjangkau untuk semua wisatawan",
			model.FieldTips:    "Datang sore hari untuk melihat matahari terbenam",
		},
	}
}

func testBlueprint() model.Blueprint {
	return model.Blueprint{
		Title: "Panduan Pantai Kuta Bali",
		Sections: []model.SectionSpec{
			model.NewSectionSpec("Sekilas Pantai Kuta", 2, model.FormatParagraph, ""),
			model.NewSectionSpec("Harga Tiket", 1, model.FormatTable, "Tabel harga"),
			model.NewSectionSpec("Jam Buka", 1, model.FormatParagraph, ""),
			model.NewSectionSpec("Lorem Ipsum", 1, model.FormatParagraph, ""),
			model.NewSectionSpec("Tips Berkunjung", 2, model.FormatList, ""),
		},
		ClosingInstruction: "Ajak pembaca berkunjung",
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		heading  string
		want     string
	}{
		{
			name:     "fences and bold",
			fragment: "```html\n**Harga** tiket murah\n```",
			heading:  "Harga Tiket",
			want:     "<h2>Harga Tiket</h2>\n<p><strong>Harga</strong> tiket murah</p>",
		},
		{
			name:     "markdown duplicate heading",
			fragment: "## Harga Tiket\nIsi bagian.",
			heading:  "Harga Tiket",
			want:     "<h2>Harga Tiket</h2>\n<p>Isi bagian.</p>",
		},
		{
			name:     "html duplicate heading",
			fragment: "<h2>Harga Tiket</h2><p>Isi</p>",
			heading:  "Harga Tiket",
			want:     "<h2>Harga Tiket</h2>\n<p>Isi</p>",
		},
		{
			name:     "multi-line paragraph kept",
			fragment: "<p>Baris satu\nbaris dua</p>",
			heading:  "",
			want:     "<p>Baris satu\nbaris dua</p>",
		},
		{
			name:     "emphasis and list",
			fragment: "Suasana *santai* sekali\n- satu\n- dua",
			heading:  "",
			want:     "<p>Suasana <em>santai</em> sekali</p>\n<ul>\n<li>satu</li>\n<li>dua</li>\n</ul>",
		},
		{
			name:     "subheading becomes h3",
			fragment: "Pembuka\n### Detail\nIsi",
			heading:  "Aktivitas",
			want:     "<h2>Aktivitas</h2>\n<p>Pembuka</p>\n<h3>Detail</h3>\n<p>Isi</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cleanup(tt.fragment, tt.heading))
		})
	}
}

func TestCleanup_RendersPipeTable(t *testing.T) {
	out := Cleanup("Daftar harga:\n| Kategori | Harga |\n|---|---|\n| Dewasa | Rp 25.000 |", "Harga Tiket")

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Rp 25.000</td>")
	assert.NotContains(t, out, "|")
	assert.NotContains(t, out, "---")
}

func TestCleanup_WordCountSurvivesFormatting(t *testing.T) {
	fragment := "Pilihan tiket:\n- Dewasa Rp 25.000\n- Anak Rp 15.000\n\n" +
		"| Hari | Jam |\n|---|---|\n| Senin | 08.00 - 17.00 |\n| Minggu | 07.00 - 18.00 |"

	doc := model.ArticleDocument{
		ConclusionHeading: model.DefaultConclusionHeading,
		Sections:          []model.ArticleSection{{Heading: "Harga Tiket", ContentHTML: Cleanup(fragment, "Harga Tiket")}},
	}
	doc.Assemble()

	formatted := format.Format("Pantai Kuta Bali", model.ContentDestination, doc).Document
	assert.Equal(t, doc.WordCount, formatted.WordCount)
	assert.Equal(t, htmltext.WordCount(formatted.FullHTML), formatted.WordCount)
}

func TestScopeFor(t *testing.T) {
	kg := testGraph()

	scope := ScopeFor("Harga Tiket dan Jam Buka", kg)
	assert.Contains(t, scope.Matched, "price")
	assert.Contains(t, scope.Matched, "hours")
	assert.Equal(t, []string{"Rp 25.000"}, scope.Entities["price"])
	assert.Equal(t, []string{"08.00 - 17.00 WITA"}, scope.Entities["hours"])
	assert.Equal(t, kg.Field(model.FieldPricing), scope.Fields[model.FieldPricing])
	assert.Contains(t, scope.Excerpt, "Rp 25.000")
	assert.NotContains(t, scope.Excerpt, "berpasir")

	assert.True(t, ScopeFor("Lorem Ipsum", kg).Empty())
}

func TestSectionPrompt(t *testing.T) {
	kg := testGraph()
	spec := model.NewSectionSpec("Harga Tiket", 1, model.FormatTable, "Tabel harga")

	p := SectionPrompt(kg.Topic, spec, ScopeFor(spec.Heading, kg))
	assert.Contains(t, p, `"Harga Tiket"`)
	assert.Contains(t, p, "Rp 25.000")
	assert.Contains(t, p, "<table>")

	p = SectionPrompt(kg.Topic, model.NewSectionSpec("Lorem", 1, model.FormatParagraph, ""), Scope{})
	assert.Contains(t, p, "No verified data")
}

func TestDraft_BackendFailureUsesData(t *testing.T) {
	failing := llm.BackendFunc(func(context.Context, string) (string, error) {
		return "", errors.New("provider down")
	})
	d := NewDrafter(model.DefaultConfig(), failing, nil)
	bp := testBlueprint()

	res := d.Draft(context.Background(), "Pantai Kuta Bali", testGraph(), bp)
	doc := res.Document

	require.Len(t, res.Drafts, len(bp.Sections))
	require.Len(t, doc.Sections, len(bp.Sections))

	price := res.Drafts[1]
	assert.False(t, price.Generated)
	assert.Equal(t, string(resolve.TierSynthesized), price.Tier)
	assert.Contains(t, price.HTML, "Rp 25.000")
	assert.Contains(t, price.HTML, "<table>")
	assert.True(t, strings.HasPrefix(price.HTML, "<h2>Harga Tiket</h2>"))

	lorem := res.Drafts[3]
	assert.Equal(t, string(resolve.TierFallback), lorem.Tier)
	assert.Contains(t, lorem.HTML, "lorem ipsum")

	assert.Contains(t, doc.IntroductionHTML, "Pantai Kuta adalah pantai ikonik di Bali.")
	assert.True(t, strings.HasPrefix(doc.ConclusionHTML, "<h2>Kesimpulan</h2>"))
	assert.Equal(t, htmltext.WordCount(doc.FullHTML), doc.WordCount)
	assert.NotEmpty(t, res.Log)
}

func TestDraft_GeneratedSections(t *testing.T) {
	provider := llm.NewStaticProvider(
		llm.Rule{Contains: `section "Harga Tiket"`, Text: "Tiket masuk hanya **Rp 25.000** per orang dan bisa dibeli langsung di loket pintu masuk pantai setiap hari."},
		llm.Rule{Contains: `section "Jam Buka"`, Text: "Terlalu pendek."},
	)
	provider.Default = strings.Repeat("Pantai ini menawarkan suasana yang menyenangkan bagi semua pengunjung. ", 3)
	d := NewDrafter(model.DefaultConfig(), llm.NewChain(nil, provider), nil)

	res := d.Draft(context.Background(), "Pantai Kuta Bali", testGraph(), testBlueprint())

	price := res.Drafts[1]
	assert.True(t, price.Generated)
	assert.Contains(t, price.HTML, "<strong>Rp 25.000</strong>")
	assert.Contains(t, price.HTML, "<table>", "table sections get a data table when generation omits one")

	hours := res.Drafts[2]
	assert.False(t, hours.Generated)
	assert.Contains(t, hours.HTML, "08.00 - 17.00 WITA")

	assert.True(t, res.Drafts[0].Generated)
	assert.Contains(t, res.Document.IntroductionHTML, "suasana yang menyenangkan")
	assert.NotContains(t, res.Document.IntroductionHTML, "<h2>")

	joined := strings.Join(res.Log, "\n")
	assert.Contains(t, joined, `section "Jam Buka": synthesized (generated output rejected)`)
}

func TestDraft_NilBackend(t *testing.T) {
	d := NewDrafter(model.DefaultConfig(), nil, nil)
	res := d.Draft(context.Background(), "Lorem", model.KnowledgeGraph{Topic: "Lorem"}, testBlueprint())

	for _, draft := range res.Drafts {
		assert.False(t, draft.Generated)
		assert.NotEmpty(t, htmltext.StripTags(draft.HTML))
	}
	assert.Greater(t, res.Document.WordCount, 0)
}
