package rewrite

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

// allowlist holds brand, place and platform names that are always protected
var allowlist = []string{
	"Indonesia", "Bali", "Jakarta", "Yogyakarta", "Jogja", "Bandung", "Lombok",
	"Surabaya", "Malang", "Labuan Bajo", "Raja Ampat", "Bromo", "Borobudur",
	"Prambanan", "Ubud", "Kuta", "Seminyak", "Nusa Penida", "Danau Toba",
	"Google Maps", "Google", "Instagram", "TikTok", "YouTube", "WhatsApp",
	"Traveloka", "Tiket.com", "Agoda", "Booking.com", "Airbnb", "Gojek", "Grab",
	"Sekali.id",
}

// Span is a half-open byte range
type Span struct {
	Start, End int
}

// ProtectedTermSet is the set of terms the rewriter must never alter or
// crowd: topic keywords, the fixed allowlist and the brand name
type ProtectedTermSet struct {
	terms   []string
	pattern *regexp.Regexp
}

// NewProtectedTermSet builds the set for one article
func NewProtectedTermSet(topic, brand string) *ProtectedTermSet {
	terms := model.TopicKeywords(topic)
	terms = model.AppendUnique(terms, allowlist...)
	if brand != "" {
		terms = model.AppendUnique(terms, brand)
	}

	// Longest first so "Google Maps" wins over "Google"
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })

	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &ProtectedTermSet{
		terms:   terms,
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Terms returns the protected terms, longest first
func (p *ProtectedTermSet) Terms() []string {
	return append([]string(nil), p.terms...)
}

// Contains reports whether w is itself a protected term
func (p *ProtectedTermSet) Contains(w string) bool {
	for _, t := range p.terms {
		if strings.EqualFold(t, w) {
			return true
		}
	}
	return false
}

// Find returns every protected occurrence in text
func (p *ProtectedTermSet) Find(text string) []Span {
	return spans(p.pattern.FindAllStringIndex(text, -1))
}

var numericPattern = regexp.MustCompile(`(?i)\b(?:rp|idr|usd|us\$)\.?|\$|€|\d`)

// findNumeric returns every currency marker and digit run in text
func findNumeric(text string) []Span {
	return spans(numericPattern.FindAllStringIndex(text, -1))
}

func spans(locs [][]int) []Span {
	out := make([]Span, len(locs))
	for i, l := range locs {
		out[i] = Span{Start: l[0], End: l[1]}
	}
	return out
}

// distance is the gap in bytes between two spans, 0 when they touch or overlap
func distance(a, b Span) int {
	switch {
	case b.Start >= a.End:
		return b.Start - a.End
	case a.Start >= b.End:
		return a.Start - b.End
	default:
		return 0
	}
}

// near reports whether s lies within window bytes of any of the spans
func near(s Span, others []Span, window int) bool {
	for _, o := range others {
		if distance(s, o) < window {
			return true
		}
	}
	return false
}
