package connect

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/search"
)

// MaxRelated is how many ranked candidates are kept
const MaxRelated = 8

// Candidate is a published article ranked against the topic
type Candidate struct {
	search.Article
	Similarity float64 `json:"similarity"`
}

// SearchTerms returns the significant topic words plus the full topic
func SearchTerms(topic string) []string {
	terms := model.TopicKeywords(topic)
	if t := strings.TrimSpace(topic); t != "" {
		terms = model.AppendUnique(terms, t)
	}
	return terms
}

// Similarity is the Jaccard index of the two strings' lowercase word sets
func Similarity(a, b string) float64 {
	sa, sb := wordSet(a), wordSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for w := range sa {
		if sb[w] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = true
	}
	return set
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// findRelated queries the index for every search term and for every
// category whose name shares a word with a term, then ranks by similarity
// to the topic. Exact-topic matches are skipped. Search errors only drop
// that one query.
func findRelated(ctx context.Context, index search.ContentSearch, topic string, trail *model.Trail) []Candidate {
	terms := SearchTerms(topic)
	queries := append([]string(nil), terms...)

	categories, err := index.ListCategories(ctx)
	if err != nil {
		trail.Logf("list categories failed: %v", err)
	}
	for _, c := range categories {
		if sharesWord(c.Name, terms) {
			queries = model.AppendUnique(queries, c.Name)
		}
	}

	seen := make(map[string]bool)
	self := normalizeTitle(topic)
	var out []Candidate
	for _, q := range queries {
		articles, err := index.Search(ctx, q)
		if err != nil {
			trail.Logf("search %q failed: %v", q, err)
			continue
		}
		for _, a := range articles {
			key := a.URL
			if key == "" {
				key = a.ID
			}
			if seen[key] || normalizeTitle(a.Title) == self {
				continue
			}
			seen[key] = true
			out = append(out, Candidate{Article: a, Similarity: Similarity(topic, a.Title)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > MaxRelated {
		out = out[:MaxRelated]
	}
	return out
}

func sharesWord(name string, terms []string) bool {
	words := wordSet(name)
	for _, t := range terms {
		for w := range wordSet(t) {
			if len(w) > 3 && words[w] {
				return true
			}
		}
	}
	return false
}
