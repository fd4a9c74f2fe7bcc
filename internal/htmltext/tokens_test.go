package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		`<p>Tempat ini memiliki <strong>Sekali.id</strong> sebagai brand</p>`,
		`<h2>Harga Tiket</h2><table class="x"><tr><td>Rp 25.000</td></tr></table>`,
		`plain text with &amp; entity and a < b`,
		`<!-- comment --><br/><img src="a.jpg" alt="x">tail`,
		``,
	}

	for _, in := range inputs {
		assert.Equal(t, in, Render(Tokenize(in)))
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tokens := Tokenize(`<p>Hello <a href="/x">world</a></p>`)
	require.Len(t, tokens, 6)

	assert.Equal(t, Tag, tokens[0].Kind)
	assert.Equal(t, "p", tokens[0].Name)
	assert.Equal(t, Text, tokens[1].Kind)
	assert.Equal(t, "Hello ", tokens[1].Raw)
	assert.Equal(t, "a", tokens[2].Name)
	assert.True(t, tokens[4].Closing)
}

func TestWalk_TracksStack(t *testing.T) {
	tokens := Tokenize(`<h2>Title</h2><p>Body <a href="#">link</a> end</p>`)

	var inHeading, inLink []string
	Walk(tokens, func(tok *Token, stack *Stack) {
		if stack.InsideHeading() {
			inHeading = append(inHeading, tok.Raw)
		}
		if stack.Inside("a") {
			inLink = append(inLink, tok.Raw)
		}
	})

	assert.Equal(t, []string{"Title"}, inHeading)
	assert.Equal(t, []string{"link"}, inLink)
}

func TestWalk_MutatesText(t *testing.T) {
	tokens := Tokenize(`<p class="pantai">pantai indah</p>`)
	Walk(tokens, func(tok *Token, _ *Stack) {
		tok.Raw = "laut biru"
	})
	assert.Equal(t, `<p class="pantai">laut biru</p>`, Render(tokens))
}

func TestBlocks_GroupsInlineRuns(t *testing.T) {
	tokens := Tokenize(`<p>a <strong>b</strong> c</p><p>d</p>`)
	blocks := Blocks(tokens)

	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0], 3)
	assert.Len(t, blocks[1], 1)
}

func TestStripTagsAndCountWords(t *testing.T) {
	tests := []struct {
		in    string
		text  string
		words int
	}{
		{`<p>one</p><p>two</p>`, "one two", 2},
		{`<p>Rp&nbsp;25.000 per <strong>orang</strong></p>`, "Rp 25.000 per orang", 4},
		{`<script>var x = 1;</script><p>visible</p>`, "visible", 1},
		{``, "", 0},
		{`<h2>Judul</h2>teks bebas`, "Judul teks bebas", 3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.text, StripTags(tt.in))
			assert.Equal(t, tt.words, WordCount(tt.in))
		})
	}
}

func TestCountElements(t *testing.T) {
	s := `<p><strong>a</strong> <b>b</b> <em>c</em></p><ul><li>x</li></ul>`
	assert.Equal(t, 2, CountElements(s, "strong", "b"))
	assert.Equal(t, 1, CountElements(s, "ul"))
	assert.Equal(t, 0, CountElements(s, "table"))
}
