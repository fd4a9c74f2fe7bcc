package rewrite

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
)

func newSubstituter(topic string, seed int64) *Substituter {
	return &Substituter{
		Protected:       NewProtectedTermSet(topic, "Sekali.id"),
		Intensity:       1.0,
		ProtectedWindow: 30,
		NumericWindow:   12,
		Rand:            rand.New(rand.NewSource(seed)),
	}
}

func TestSubstituter_BrandInNeighbouringRun(t *testing.T) {
	in := "<p>Tempat ini memiliki <strong>Sekali.id</strong> sebagai brand</p>"
	out, subs := newSubstituter("", 1).Apply(in)

	assert.Equal(t, in, out)
	assert.Empty(t, subs)
}

func TestSubstituter_ReplacesClearWords(t *testing.T) {
	out, subs := newSubstituter("", 1).Apply("<p>Tempat ini memiliki pasir putih.</p>")

	assert.Equal(t, "<p>Tempat ini mempunyai pasir putih.</p>", out)
	require.Len(t, subs, 1)
	assert.Equal(t, "memiliki", subs[0].Original)
}

func TestSubstituter_NumericWindow(t *testing.T) {
	in := "<p>Harga tiket sangat murah, Rp 25.000 saja.</p>"
	out, _ := newSubstituter("", 1).Apply(in)
	assert.Equal(t, in, out)
}

func TestSubstituter_SkipsHeadingsAndLinks(t *testing.T) {
	in := `<h2>Suasana indah</h2><a href="/x">suasana indah</a>`
	out, subs := newSubstituter("", 1).Apply(in)
	assert.Equal(t, in, out)
	assert.Empty(t, subs)
}

func TestSubstituter_CaseAndZeroIntensity(t *testing.T) {
	out, _ := newSubstituter("", 1).Apply("<p>Memiliki banyak pilihan.</p>")
	assert.Equal(t, "<p>Mempunyai banyak pilihan.</p>", out)

	s := newSubstituter("", 1)
	s.Intensity = 0
	in := "<p>Memiliki banyak pilihan.</p>"
	out, subs := s.Apply(in)
	assert.Equal(t, in, out)
	assert.Empty(t, subs)
}

// Every substitution must keep its distance from protected terms and
// numbers, whatever the random source decides
func TestSubstituter_SafetyProperty(t *testing.T) {
	text := "Pantai Kuta sangat indah dan memiliki suasana nyaman. Pengunjung biasanya menikmati sunset, " +
		"harga tiket Rp 25.000 sangat terjangkau, dan lokasi mudah dijangkau dari Denpasar. Selain itu tersedia " +
		"berbagai warung yang terkenal di Bali, cocok untuk keluarga yang ingin melihat suasana pantai yang ramai dan luas."
	html := "<p>" + text + "</p>"
	protected := NewProtectedTermSet("Pantai Kuta Bali", "Sekali.id")
	terms := protected.Find(text)
	numbers := findNumeric(text)
	require.NotEmpty(t, terms)

	for seed := int64(1); seed <= 50; seed++ {
		s := newSubstituter("Pantai Kuta Bali", seed)
		s.Intensity = 0.5
		out, subs := s.Apply(html)

		for _, sub := range subs {
			assert.False(t, near(sub.Span, terms, s.ProtectedWindow), "seed %d: %q too close to a protected term", seed, sub.Original)
			assert.False(t, near(sub.Span, numbers, s.NumericWindow), "seed %d: %q too close to a number", seed, sub.Original)
		}
		for _, term := range []string{"Pantai Kuta", "Rp 25.000", "Bali"} {
			assert.Contains(t, out, term, "seed %d", seed)
		}
	}
}

func TestProtectedTermSet(t *testing.T) {
	p := NewProtectedTermSet("Wisata Pantai Kuta di Bali", "Sekali.id")

	assert.True(t, p.Contains("pantai"))
	assert.True(t, p.Contains("Sekali.id"))
	assert.True(t, p.Contains("Google Maps"))
	assert.False(t, p.Contains("wisata"))
	assert.False(t, p.Contains("di"))

	spans := p.Find("Cari di Google Maps lalu ke Pantai Kuta.")
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Start: 8, End: 19}, spans[0])
}

func TestGrammar(t *testing.T) {
	in := "<p>pantai  ini ini sangat indah . lalu kami pergi ,bersama Sekali . id</p>"
	want := "<p>Pantai ini sangat indah. Lalu kami pergi, bersama Sekali.id</p>"
	assert.Equal(t, want, grammar(in, "Sekali.id"))
}

func TestGrammar_LeavesTagsAndNumbers(t *testing.T) {
	in := `<p>Tiket <a href="https://x.id/a?b=c">beli  di sini</a> seharga Rp 25.000, buka 08.00.</p>`
	assert.Equal(t, in, grammar(in, "Sekali.id"))
}

func TestGrammar_KeepsEntities(t *testing.T) {
	in := "<p>" + htmltext.Escape(`Jimbaran's seafood & "Kuta" view`) + "</p>"
	out := grammar(in, "Sekali.id")

	assert.Equal(t, `Jimbaran's seafood & "Kuta" view`, htmltext.StripTags(out))
	assert.Equal(t, htmltext.WordCount(in), htmltext.WordCount(out))
	assert.Equal(t, "<p>Jimbaran, seafood</p>", grammar("<p>jimbaran ,seafood</p>", "Sekali.id"))
}

func TestReplacePronouns(t *testing.T) {
	out, n := replacePronouns("<p>Kami merekomendasikan tempat ini.</p><h2>Tentang Kami</h2>", "Sekali.id")
	assert.Equal(t, 1, n)
	assert.Equal(t, "<p>Sekali.id merekomendasikan tempat ini.</p><h2>Tentang Kami</h2>", out)
}

func TestStripBoilerplate(t *testing.T) {
	out, n := stripBoilerplate("<p>Tidak dapat dipungkiri bahwa pantai ini indah. In conclusion, datanglah.</p>")
	assert.Equal(t, 2, n)
	assert.Equal(t, "<p>pantai ini indah. datanglah.</p>", out)
}

func testConfig() model.PipelineConfig {
	cfg := model.DefaultConfig()
	cfg.Writing.Seed = 42
	cfg.Writing.PolishEnabled = false
	return cfg
}

func testDoc() model.ArticleDocument {
	doc := model.ArticleDocument{
		IntroductionHTML:  "<p>Tidak dapat dipungkiri bahwa pantai ini indah.</p>",
		ConclusionHeading: model.DefaultConclusionHeading,
		Sections: []model.ArticleSection{{
			Heading:     "Suasana",
			ContentHTML: "<h2>Suasana</h2>\n<p>Kami suka suasana Pantai Kuta yang nyaman dan tempat ini memiliki pasir putih yang sangat luas untuk bermain.</p>",
		}},
		ConclusionHTML: "<h2>Kesimpulan</h2>\n<p>Selamat berlibur.</p>",
	}
	doc.Assemble()
	return doc
}

func TestEditor_Run(t *testing.T) {
	cfg := testConfig()
	res := NewEditor(cfg, nil, nil).Run(context.Background(), "Pantai Kuta", testDoc())
	doc := res.Document

	assert.Equal(t, "<p>Pantai ini indah.</p>", doc.IntroductionHTML)
	assert.Contains(t, doc.Sections[0].ContentHTML, "Sekali.id suka")
	assert.Contains(t, doc.Sections[0].ContentHTML, "Pantai Kuta")
	assert.Equal(t, htmltext.WordCount(doc.FullHTML), doc.WordCount)
	assert.Greater(t, res.Scores.SEO.Score, 0)
	assert.NotEmpty(t, res.Log)

	again := NewEditor(cfg, nil, nil).Run(context.Background(), "Pantai Kuta", testDoc())
	assert.Equal(t, doc.FullHTML, again.Document.FullHTML, "same seed, same output")
}

func TestEditor_Polish(t *testing.T) {
	cfg := testConfig()
	cfg.Writing.PolishEnabled = true
	cfg.Writing.SpinIntensity = 0

	t.Run("accepted", func(t *testing.T) {
		polished := "<p>Pantai ini sungguh indah.</p>\n\n<h2>Suasana</h2>\n<p>Sekali.id suka suasana Pantai Kuta yang nyaman, tempat ini memiliki pasir putih yang luas untuk bermain.</p>\n\n<h2>Kesimpulan</h2>\n<p>Selamat berlibur.</p>"
		provider := llm.NewStaticProvider(llm.Rule{Contains: "Polish the Bahasa Indonesia", Text: "```html\n" + polished + "\n```"})
		res := NewEditor(cfg, llm.NewChain(nil, provider), nil).Run(context.Background(), "Pantai Kuta", testDoc())

		assert.Equal(t, polished, res.Document.FullHTML)
		assert.Equal(t, "<h2>Kesimpulan</h2>\n<p>Selamat berlibur.</p>", res.Document.ConclusionHTML)
		assert.Contains(t, strings.Join(res.Log, "\n"), "polish accepted")
	})

	t.Run("runaway rewrite discarded", func(t *testing.T) {
		provider := llm.NewStaticProvider(llm.Rule{Contains: "Polish", Text: "<h2>Suasana</h2><h2>Kesimpulan</h2><p>Singkat.</p>"})
		res := NewEditor(cfg, llm.NewChain(nil, provider), nil).Run(context.Background(), "Pantai Kuta", testDoc())

		assert.Contains(t, res.Document.FullHTML, "pasir putih")
		assert.Contains(t, strings.Join(res.Log, "\n"), "polish discarded")
	})

	t.Run("size ceiling", func(t *testing.T) {
		small := cfg
		small.Writing.PolishMaxChars = 10
		provider := llm.NewStaticProvider()
		NewEditor(small, llm.NewChain(nil, provider), nil).Run(context.Background(), "Pantai Kuta", testDoc())
		assert.Empty(t, provider.Prompts())
	})
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, withinTolerance(100, 120))
	assert.True(t, withinTolerance(100, 80))
	assert.False(t, withinTolerance(100, 79))
	assert.False(t, withinTolerance(100, 121))
	assert.True(t, withinTolerance(0, 0))
}
