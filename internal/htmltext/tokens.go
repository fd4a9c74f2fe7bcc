// Package htmltext splits HTML fragments into tag and text tokens so that
// rewriting passes can mutate prose without ever touching markup.
package htmltext

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind distinguishes markup tokens from prose tokens
type Kind int

const (
	// Text is a run of character data between two tags
	Text Kind = iota
	// Tag is any markup fragment: start/end/self-closing tags, comments, doctypes
	Tag
)

// Token is one fragment of an HTML string. Concatenating the Raw field of
// every token reproduces the input byte-for-byte.
type Token struct {
	Kind    Kind
	Raw     string
	Name    string // lowercase element name, empty for text and comments
	Closing bool   // </name>
}

// Tokenize splits s into tag and text tokens
func Tokenize(s string) []Token {
	z := html.NewTokenizer(strings.NewReader(s))
	var tokens []Token

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Unparseable tail is kept verbatim as text.
				if rest := string(z.Raw()); rest != "" {
					tokens = append(tokens, Token{Kind: Text, Raw: rest})
				}
			}
			break
		}

		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			tokens = append(tokens, Token{Kind: Text, Raw: raw})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tokens = append(tokens, Token{Kind: Tag, Raw: raw, Name: string(name)})
		case html.EndTagToken:
			name, _ := z.TagName()
			tokens = append(tokens, Token{Kind: Tag, Raw: raw, Name: string(name), Closing: true})
		default:
			tokens = append(tokens, Token{Kind: Tag, Raw: raw})
		}
	}

	return tokens
}

// Render concatenates tokens back into an HTML string
func Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Raw)
	}
	return b.String()
}

// voidElements never have a closing tag
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// blockElements break prose into separate blocks (and separate words)
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true, "ul": true,
}

// IsBlock reports whether the element name is block-level
func IsBlock(name string) bool {
	return blockElements[name]
}

// IsHeading reports whether the element name is h1-h6
func IsHeading(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

// Stack tracks which elements are open while walking a token stream
type Stack struct {
	open []string
}

// Update pushes or pops the element represented by tok
func (s *Stack) Update(tok Token) {
	if tok.Kind != Tag || tok.Name == "" || voidElements[tok.Name] {
		return
	}
	if strings.HasSuffix(tok.Raw, "/>") {
		return
	}
	if !tok.Closing {
		s.open = append(s.open, tok.Name)
		return
	}
	for i := len(s.open) - 1; i >= 0; i-- {
		if s.open[i] == tok.Name {
			s.open = s.open[:i]
			return
		}
	}
}

// Inside reports whether any of the named elements is currently open
func (s *Stack) Inside(names ...string) bool {
	for _, open := range s.open {
		for _, n := range names {
			if open == n {
				return true
			}
		}
	}
	return false
}

// InsideHeading reports whether an h1-h6 element is currently open
func (s *Stack) InsideHeading() bool {
	for _, open := range s.open {
		if IsHeading(open) {
			return true
		}
	}
	return false
}

// Walk visits every text token with the element stack in effect for it.
// The callback may modify tok.Raw in place.
func Walk(tokens []Token, fn func(tok *Token, stack *Stack)) {
	var stack Stack
	for i := range tokens {
		if tokens[i].Kind == Tag {
			stack.Update(tokens[i])
			continue
		}
		fn(&tokens[i], &stack)
	}
}

// Blocks groups the indexes of text tokens by enclosing block element, so
// that "<p>a <strong>b</strong> c</p>" yields one block of three runs.
func Blocks(tokens []Token) [][]int {
	var blocks [][]int
	var current []int

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
	}

	for i, t := range tokens {
		if t.Kind == Tag {
			if IsBlock(t.Name) {
				flush()
			}
			continue
		}
		current = append(current, i)
	}
	flush()

	return blocks
}
