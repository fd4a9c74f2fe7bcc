package research

import (
	"strings"
	"unicode/utf8"
)

// splitSentences splits plain text into sentences of 30-500 bytes. A
// terminator only ends a sentence when followed by whitespace, so prices
// like "Rp 25.000" and abbreviations like "Jl." mid-token survive.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 30 && len(sentence) <= 500 {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] == ' ' && !endsWithAbbreviation(current.String()) {
			flush()
		}
	}
	if current.Len() > 0 {
		flush()
	}

	return sentences
}

// abbreviations that end in a period but never end a sentence
var abbreviations = []string{"jl.", "jln.", "no.", "kab.", "kec.", "dr.", "st.", "mt.", "tel.", "telp.", "ds.", "kel."}

func endsWithAbbreviation(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(fields[len(fields)-1])
	for _, a := range abbreviations {
		if last == a {
			return true
		}
	}
	return false
}

// truncateRunes cuts s to at most n runes, preferring a word boundary
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := string(runes)
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
