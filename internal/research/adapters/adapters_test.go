package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPage = `<html><head><title>Pantai Kuta - Blog Jalan</title></head><body>
<nav><a href="/">Home</a> Menu navigasi</nav>
<article>
<h1>Panduan Pantai Kuta</h1>
<p>Pantai Kuta terletak di Kabupaten Badung, Bali.</p>
<p>Tiket masuk <strong>Rp 10.000</strong> per orang.</p>
<ul><li>Buka 24 jam</li><li>Parkir luas</li></ul>
</article>
<footer>Hak cipta 2024</footer>
<script>var tracking = true;</script>
</body></html>`

const wikiPage = `<html><head><title>Pantai Kuta - Wikipedia</title></head><body>
<h1 id="firstHeading">Pantai Kuta</h1>
<div id="mw-content-text"><div class="mw-parser-output">
<div class="hatnote">Untuk kegunaan lain, lihat Kuta.</div>
<p>Pantai Kuta adalah sebuah pantai<sup class="reference">[1]</sup> di Bali.</p>
<h2>Sejarah<span class="mw-editsection">[sunting]</span></h2>
<p>Dikenal sejak tahun 1930-an.</p>
<h2>Referensi</h2>
<ol class="references"><li>Sumber lama</li></ol>
<p>Teks setelah referensi</p>
</div></div></body></html>`

func TestGenericAdapter_MainContent(t *testing.T) {
	content, name, err := NewRegistry().Extract(blogPage, "https://blogjalan.com/pantai-kuta")
	require.NoError(t, err)

	assert.Equal(t, "generic", name)
	assert.Equal(t, "Pantai Kuta - Blog Jalan", content.Title)
	assert.Contains(t, content.Text, "Kabupaten Badung")
	assert.Contains(t, content.Text, "Tiket masuk Rp 10.000 per orang.")
	assert.Contains(t, content.Text, "Buka 24 jam")
	assert.NotContains(t, content.Text, "Menu navigasi")
	assert.NotContains(t, content.Text, "tracking")
	assert.Equal(t, []string{"Panduan Pantai Kuta"}, content.Headings)
}

func TestGenericAdapter_BodyFallback(t *testing.T) {
	content, _, err := NewRegistry().Extract(`<html><body><p>Hanya paragraf.</p></body></html>`, "https://x.id/")
	require.NoError(t, err)
	assert.Equal(t, "Hanya paragraf.", content.Text)
}

func TestWikipediaAdapter(t *testing.T) {
	content, name, err := NewRegistry().Extract(wikiPage, "https://id.wikipedia.org/wiki/Pantai_Kuta")
	require.NoError(t, err)

	assert.Equal(t, "wikipedia", name)
	assert.Equal(t, "Pantai Kuta", content.Title)
	assert.Contains(t, content.Text, "Pantai Kuta adalah sebuah pantai di Bali.")
	assert.Contains(t, content.Text, "Sejarah")
	assert.Contains(t, content.Text, "1930-an")
	assert.NotContains(t, content.Text, "[1]")
	assert.NotContains(t, content.Text, "sunting")
	assert.NotContains(t, content.Text, "Sumber lama")
	assert.NotContains(t, content.Text, "Teks setelah referensi")
	assert.NotContains(t, content.Text, "kegunaan lain")
}

func TestRegistry_FindAdapter(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "wikipedia", r.FindAdapter("https://en.wikipedia.org/wiki/Bali").Name())
	assert.Equal(t, "generic", r.FindAdapter("https://example.com").Name())
}

func TestRegistry_WikipediaFallsBackToGeneric(t *testing.T) {
	content, name, err := NewRegistry().Extract(`<html><body><main><p>Mirror tanpa parser output.</p></main></body></html>`, "https://id.wikipedia.org/wiki/X")
	require.NoError(t, err)
	assert.Equal(t, "generic", name)
	assert.Equal(t, "Mirror tanpa parser output.", content.Text)
}
