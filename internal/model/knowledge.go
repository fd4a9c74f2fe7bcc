package model

import "strings"

// ContentType classifies what kind of place or thing a topic is about
type ContentType string

const (
	ContentDestination ContentType = "destination" // Beaches, parks, landmarks
	ContentFood        ContentType = "food"        // Restaurants, warungs, cafes
	ContentLodging     ContentType = "lodging"     // Hotels, villas, homestays
	ContentActivity    ContentType = "activity"    // Tours, rafting, diving
)

// EnrichmentField names one labeled block of the enrichment output
type EnrichmentField string

const (
	FieldSummary     EnrichmentField = "SUMMARY"
	FieldHistory     EnrichmentField = "HISTORY"
	FieldLocation    EnrichmentField = "LOCATION"
	FieldPricing     EnrichmentField = "PRICING"
	FieldHours       EnrichmentField = "HOURS"
	FieldFacilities  EnrichmentField = "FACILITIES"
	FieldActivities  EnrichmentField = "ACTIVITIES"
	FieldAttractions EnrichmentField = "ATTRACTIONS"
	FieldFood        EnrichmentField = "FOOD"
	FieldTips        EnrichmentField = "TIPS"
	FieldUnique      EnrichmentField = "UNIQUE"
	FieldLSI         EnrichmentField = "LSI"
)

// EnrichmentFields lists every field in the order the enrichment prompt asks for them
var EnrichmentFields = []EnrichmentField{
	FieldSummary, FieldHistory, FieldLocation, FieldPricing, FieldHours,
	FieldFacilities, FieldActivities, FieldAttractions, FieldFood, FieldTips,
	FieldUnique, FieldLSI,
}

// AuthorityTier ranks how much a source page can be trusted
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierOfficial  AuthorityTier = 1 // Government and tourism-board sites
	TierReference AuthorityTier = 2 // Encyclopedias, major travel publishers
	TierCommunity AuthorityTier = 3 // Blogs, forums, review aggregators
	TierGenerated AuthorityTier = 4 // Synthetic text from the generative backend
)

func (t AuthorityTier) String() string {
	switch t {
	case TierOfficial:
		return "official"
	case TierReference:
		return "reference"
	case TierCommunity:
		return "community"
	case TierGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// SourceDocument is one piece of raw text the knowledge graph was built from
type SourceDocument struct {
	SourceLabel string        `json:"source_label"`        // Host name, "generative-overview" or "placeholder"
	ExcerptText string        `json:"excerpt_text"`        // Main text, truncated
	URL         string        `json:"url,omitempty"`       // Empty for synthetic sources
	Authority   AuthorityTier `json:"authority,omitempty"` // Source classification
}

// Entities holds the pattern-extracted facts, each list ordered by first
// appearance and free of case-insensitive duplicates
type Entities struct {
	Prices       []string `json:"prices,omitempty"`
	OpeningHours []string `json:"opening_hours,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	Contacts     []string `json:"contacts,omitempty"`
	Ratings      []string `json:"ratings,omitempty"`
}

// Merge appends other's values into e, skipping duplicates
func (e *Entities) Merge(other Entities) {
	e.Prices = AppendUnique(e.Prices, other.Prices...)
	e.OpeningHours = AppendUnique(e.OpeningHours, other.OpeningHours...)
	e.Locations = AppendUnique(e.Locations, other.Locations...)
	e.Contacts = AppendUnique(e.Contacts, other.Contacts...)
	e.Ratings = AppendUnique(e.Ratings, other.Ratings...)
}

// Empty reports whether no entity of any kind was found
func (e Entities) Empty() bool {
	return len(e.Prices)+len(e.OpeningHours)+len(e.Locations)+len(e.Contacts)+len(e.Ratings) == 0
}

// KnowledgeGraph is everything research learned about a topic. It is built
// once and then only read.
type KnowledgeGraph struct {
	Topic           string                     `json:"topic"`
	ContentType     ContentType                `json:"content_type"`
	Entities        Entities                   `json:"entities"`
	KeyFacts        []string                   `json:"key_facts,omitempty"`
	HeadingsSeen    []string                   `json:"headings_seen,omitempty"`
	SourceDocuments []SourceDocument           `json:"source_documents"`
	Enrichment      map[EnrichmentField]string `json:"enrichment,omitempty"`
}

// Field returns an enrichment value, or "" when it was never produced
func (kg KnowledgeGraph) Field(f EnrichmentField) string {
	if kg.Enrichment == nil {
		return ""
	}
	return kg.Enrichment[f]
}

// LSIKeywords splits the LSI enrichment field into individual keywords
func (kg KnowledgeGraph) LSIKeywords() []string {
	raw := kg.Field(FieldLSI)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		if kw := strings.TrimSpace(part); kw != "" {
			out = AppendUnique(out, kw)
		}
	}
	return out
}

// PrimaryLocation returns the best known place name for the topic: the
// first extracted location, or the last word group of the topic itself
func (kg KnowledgeGraph) PrimaryLocation() string {
	if len(kg.Entities.Locations) > 0 {
		return kg.Entities.Locations[0]
	}
	words := strings.Fields(kg.Topic)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// AppendUnique appends values not already present (case-insensitive,
// whitespace-trimmed) and returns the extended slice
func AppendUnique(list []string, values ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[strings.ToLower(strings.TrimSpace(v))] = true
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		list = append(list, v)
	}
	return list
}
