package draft

import (
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

// scopeRule pulls knowledge-graph data into a section whose heading
// matches pattern
type scopeRule struct {
	name    string
	pattern *regexp.Regexp
	fields  []model.EnrichmentField
	pick    func(model.Entities) []string
}

var scopeRules = []scopeRule{
	{
		name:    "price",
		pattern: regexp.MustCompile(`(?i)harga|price|ticket|tiket|biaya|tarif|cost|kamar`),
		fields:  []model.EnrichmentField{model.FieldPricing},
		pick:    func(e model.Entities) []string { return e.Prices },
	},
	{
		name:    "hours",
		pattern: regexp.MustCompile(`(?i)hour|\bjam\b|open|buka|jadwal|schedule|waktu`),
		fields:  []model.EnrichmentField{model.FieldHours},
		pick:    func(e model.Entities) []string { return e.OpeningHours },
	},
	{
		name:    "location",
		pattern: regexp.MustCompile(`(?i)location|lokasi|address|alamat|route|rute|akses|access|menuju|getting`),
		fields:  []model.EnrichmentField{model.FieldLocation},
		pick:    func(e model.Entities) []string { return e.Locations },
	},
	{
		name:    "history",
		pattern: regexp.MustCompile(`(?i)history|sejarah|asal|origin`),
		fields:  []model.EnrichmentField{model.FieldHistory},
	},
	{
		name:    "facility",
		pattern: regexp.MustCompile(`(?i)facilit|fasilitas|amenit`),
		fields:  []model.EnrichmentField{model.FieldFacilities},
	},
	{
		name:    "activity",
		pattern: regexp.MustCompile(`(?i)activit|aktivitas|things|kegiatan|seru|pengalaman`),
		fields:  []model.EnrichmentField{model.FieldActivities},
	},
	{
		name:    "attraction",
		pattern: regexp.MustCompile(`(?i)attraction|sekitar|nearby|destinasi`),
		fields:  []model.EnrichmentField{model.FieldAttractions},
	},
	{
		name:    "food",
		pattern: regexp.MustCompile(`(?i)food|kuliner|makan|menu|restoran|culinary`),
		fields:  []model.EnrichmentField{model.FieldFood},
	},
	{
		name:    "tips",
		pattern: regexp.MustCompile(`(?i)\btips?\b|saran|persiapan`),
		fields:  []model.EnrichmentField{model.FieldTips},
	},
	{
		name:    "contact",
		pattern: regexp.MustCompile(`(?i)contact|kontak|telepon|phone|reservasi`),
		pick:    func(e model.Entities) []string { return e.Contacts },
	},
	{
		name:    "review",
		pattern: regexp.MustCompile(`(?i)review|rating|ulasan|kelebihan`),
		pick:    func(e model.Entities) []string { return e.Ratings },
	},
	{
		name:    "overview",
		pattern: regexp.MustCompile(`(?i)sekilas|mengenal|tentang|about|apa itu|unik|unique`),
		fields:  []model.EnrichmentField{model.FieldSummary, model.FieldUnique},
	},
}

const maxExcerptRunes = 800

// Scope is the slice of the knowledge graph relevant to one heading
type Scope struct {
	Matched  []string                         // Names of the rules that matched
	Fields   map[model.EnrichmentField]string // Enrichment values
	Entities map[string][]string              // Rule name -> entity values
	Excerpt  string                           // Source sentences matching the same rules
}

// Empty reports whether the scope carries no data at all
func (s Scope) Empty() bool {
	return len(s.Fields) == 0 && len(s.Entities) == 0 && s.Excerpt == ""
}

// ScopeFor selects the knowledge-graph fields relevant to heading
func ScopeFor(heading string, kg model.KnowledgeGraph) Scope {
	scope := Scope{
		Fields:   make(map[model.EnrichmentField]string),
		Entities: make(map[string][]string),
	}

	var patterns []*regexp.Regexp
	for _, rule := range scopeRules {
		if !rule.pattern.MatchString(heading) {
			continue
		}
		scope.Matched = append(scope.Matched, rule.name)
		patterns = append(patterns, rule.pattern)

		for _, f := range rule.fields {
			if v := kg.Field(f); v != "" {
				scope.Fields[f] = v
			}
		}
		if rule.pick != nil {
			if values := rule.pick(kg.Entities); len(values) > 0 {
				scope.Entities[rule.name] = values
			}
		}
	}

	scope.Excerpt = excerptFor(kg, patterns)
	return scope
}

// excerptFor collects source sentences that match any of the patterns
func excerptFor(kg model.KnowledgeGraph, patterns []*regexp.Regexp) string {
	if len(patterns) == 0 {
		return ""
	}

	var b strings.Builder
	runes := 0
	for _, doc := range kg.SourceDocuments {
		for _, sentence := range sentencesOf(doc.ExcerptText) {
			if !matchesAny(sentence, patterns) {
				continue
			}
			n := len([]rune(sentence))
			if runes+n > maxExcerptRunes {
				return strings.TrimSpace(b.String())
			}
			b.WriteString(sentence)
			b.WriteString(" ")
			runes += n + 1
		}
	}
	return strings.TrimSpace(b.String())
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

func sentencesOf(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = append(out, strings.TrimSpace(text[last:loc[1]]))
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
