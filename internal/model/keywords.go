package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopwords are Indonesian and English filler words never treated as
// topic keywords
var stopwords = map[string]bool{
	"yang": true, "dan": true, "atau": true, "untuk": true, "dengan": true,
	"dari": true, "pada": true, "dalam": true, "adalah": true, "akan": true,
	"juga": true, "lebih": true, "para": true, "oleh": true, "sebagai": true,
	"tentang": true, "serta": true, "karena": true, "saat": true, "bisa": true,
	"wisata": true, "tempat": true, "panduan": true, "lengkap": true, "terbaik": true,
	"the": true, "and": true, "with": true, "from": true, "this": true,
	"that": true, "best": true, "guide": true, "near": true, "into": true,
}

// IsStopword reports whether w (any case) is a filler word
func IsStopword(w string) bool {
	return stopwords[strings.ToLower(w)]
}

// TopicKeywords splits a topic into its significant words: longer than
// three runes, not a stopword, deduplicated, in original order
func TopicKeywords(topic string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(topic, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-'
	}) {
		w = strings.Trim(w, ".-")
		if utf8.RuneCountInString(w) <= 3 || IsStopword(w) {
			continue
		}
		out = AppendUnique(out, w)
	}
	return out
}
