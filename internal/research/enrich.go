package research

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/resolve"
)

// enrichmentInstructions describes each labeled block the backend must write
var enrichmentInstructions = map[model.EnrichmentField]string{
	model.FieldSummary:     "2-3 sentence overview",
	model.FieldHistory:     "origin and history",
	model.FieldLocation:    "where it is and how to get there",
	model.FieldPricing:     "ticket, parking and typical prices",
	model.FieldHours:       "opening hours and best time to visit",
	model.FieldFacilities:  "facilities available on site",
	model.FieldActivities:  "things visitors can do",
	model.FieldAttractions: "nearby attractions",
	model.FieldFood:        "food and places to eat nearby",
	model.FieldTips:        "practical visiting tips",
	model.FieldUnique:      "what makes it unique",
	model.FieldLSI:         "8-12 related search keywords, comma separated",
}

const (
	maxPromptFacts    = 12
	maxPromptHeadings = 15
	maxPromptExcerpt  = 600
)

// EnrichmentPrompt asks for every enrichment field using the [[FIELD]]
// delimiter contract
func EnrichmentPrompt(kg model.KnowledgeGraph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\nContent type: %s\n\n", kg.Topic, kg.ContentType)
	writeEntityContext(&b, kg.Entities)

	if len(kg.KeyFacts) > 0 {
		b.WriteString("Key facts:\n")
		for i, f := range kg.KeyFacts {
			if i == maxPromptFacts {
				break
			}
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(kg.HeadingsSeen) > 0 {
		n := len(kg.HeadingsSeen)
		if n > maxPromptHeadings {
			n = maxPromptHeadings
		}
		fmt.Fprintf(&b, "Headings seen in sources: %s\n", strings.Join(kg.HeadingsSeen[:n], "; "))
	}
	for _, doc := range kg.SourceDocuments {
		fmt.Fprintf(&b, "\nSource (%s):\n%s\n", doc.SourceLabel, truncateRunes(doc.ExcerptText, maxPromptExcerpt))
	}

	b.WriteString("\nWrite in Bahasa Indonesia. Answer with exactly these labeled blocks, each starting on its own line:\n")
	for _, f := range model.EnrichmentFields {
		fmt.Fprintf(&b, "[[%s]] %s\n", f, enrichmentInstructions[f])
	}
	b.WriteString("Do not add any other text.")

	return b.String()
}

func writeEntityContext(b *strings.Builder, e model.Entities) {
	lists := []struct {
		label  string
		values []string
	}{
		{"Prices", e.Prices},
		{"Opening hours", e.OpeningHours},
		{"Locations", e.Locations},
		{"Contacts", e.Contacts},
		{"Ratings", e.Ratings},
	}
	for _, l := range lists {
		if len(l.values) > 0 {
			fmt.Fprintf(b, "%s: %s\n", l.label, strings.Join(l.values, "; "))
		}
	}
}

var labelPattern = regexp.MustCompile(`\[\[\s*([A-Za-z]+)\s*\]\]`)

// ParseEnrichment reads "[[FIELD]] text" blocks. A block runs until the
// next label; unknown labels and empty blocks are dropped.
func ParseEnrichment(raw string) map[model.EnrichmentField]string {
	known := make(map[model.EnrichmentField]bool, len(model.EnrichmentFields))
	for _, f := range model.EnrichmentFields {
		known[f] = true
	}

	out := make(map[model.EnrichmentField]string)
	locs := labelPattern.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		field := model.EnrichmentField(strings.ToUpper(raw[loc[2]:loc[3]]))
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.Join(strings.Fields(raw[loc[1]:end]), " ")
		text = strings.TrimLeft(text, ":- ")
		if known[field] && text != "" {
			out[field] = text
		}
	}
	return out
}

// SynthesizeEnrichment fills every field from raw entities with generic
// phrasing. Real values are quoted verbatim wherever they exist.
func SynthesizeEnrichment(kg model.KnowledgeGraph) map[model.EnrichmentField]string {
	topic := kg.Topic
	place := kg.PrimaryLocation()
	e := kg.Entities

	out := map[model.EnrichmentField]string{
		model.FieldSummary:     fmt.Sprintf("%s adalah salah satu tujuan yang layak dikunjungi di %s.", topic, place),
		model.FieldHistory:     fmt.Sprintf("%s berkembang menjadi tempat favorit wisatawan lokal maupun mancanegara.", topic),
		model.FieldLocation:    fmt.Sprintf("%s berada di kawasan %s dan mudah dijangkau dengan kendaraan pribadi.", topic, place),
		model.FieldPricing:     fmt.Sprintf("Harga di %s tergolong terjangkau; cek informasi terbaru sebelum berkunjung.", topic),
		model.FieldHours:       fmt.Sprintf("%s dapat dikunjungi setiap hari; pagi dan sore hari adalah waktu terbaik.", topic),
		model.FieldFacilities:  "Tersedia fasilitas umum seperti area parkir, toilet, dan tempat istirahat.",
		model.FieldActivities:  fmt.Sprintf("Pengunjung dapat berjalan santai, berfoto, dan menikmati suasana %s.", topic),
		model.FieldAttractions: fmt.Sprintf("Ada beberapa tempat menarik lain di sekitar %s yang bisa dikunjungi sekaligus.", place),
		model.FieldFood:        fmt.Sprintf("Di sekitar %s terdapat warung dan restoran dengan menu khas setempat.", place),
		model.FieldTips:        "Datang lebih awal, bawa air minum, dan jaga kebersihan selama berkunjung.",
		model.FieldUnique:      fmt.Sprintf("%s menawarkan pengalaman yang berbeda dari tempat lain di %s.", topic, place),
	}

	if len(e.Locations) > 0 {
		out[model.FieldLocation] = fmt.Sprintf("%s berlokasi di %s.", topic, strings.Join(firstN(e.Locations, 2), ", "))
	}
	if len(e.Prices) > 0 {
		out[model.FieldPricing] = fmt.Sprintf("Kisaran harga yang tercatat: %s.", strings.Join(firstN(e.Prices, 3), ", "))
	}
	if len(e.OpeningHours) > 0 {
		out[model.FieldHours] = fmt.Sprintf("Jam operasional: %s.", strings.Join(firstN(e.OpeningHours, 2), ", "))
	}
	if len(kg.KeyFacts) > 0 {
		out[model.FieldUnique] = kg.KeyFacts[0]
	}

	lsi := []string{topic, "wisata " + place, topic + " terbaru", "harga tiket " + topic, "lokasi " + topic, "tips ke " + topic}
	out[model.FieldLSI] = strings.Join(model.AppendUnique(nil, lsi...), ", ")

	return out
}

// Enrich resolves the enrichment block: generated fields where the backend
// delivered them, synthesized fields for everything missing
func (r *Researcher) Enrich(ctx context.Context, kg model.KnowledgeGraph, trail *model.Trail) map[model.EnrichmentField]string {
	synth := SynthesizeEnrichment(kg)

	res := resolve.Resolver[map[model.EnrichmentField]string]{
		Generate: func(ctx context.Context) (map[model.EnrichmentField]string, error) {
			ctx, cancel := context.WithTimeout(ctx, r.timeouts.Enrichment)
			defer cancel()
			raw, err := r.backend.Generate(ctx, EnrichmentPrompt(kg))
			if err != nil {
				return nil, err
			}
			return ParseEnrichment(raw), nil
		},
		Accept:   func(m map[model.EnrichmentField]string) bool { return len(m) > 0 },
		Fallback: func() map[model.EnrichmentField]string { return synth },
	}.Resolve(ctx)

	if res.Err != nil {
		trail.Logf("enrichment generation failed (%v); synthesized all %d fields", res.Err, len(synth))
		return synth
	}

	out := res.Value
	var filled []string
	for _, f := range model.EnrichmentFields {
		if out[f] == "" {
			out[f] = synth[f]
			filled = append(filled, string(f))
		}
	}
	if len(filled) > 0 {
		trail.Logf("enrichment missing %s; synthesized from entities", strings.Join(filled, ", "))
	} else {
		trail.Logf("enrichment generated for all %d fields", len(out))
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
