package draft

import (
	"fmt"
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// entityLabels names each entity group in synthesized sentences and tables
var entityLabels = map[string]string{
	"price":    "Harga",
	"hours":    "Jam buka",
	"location": "Lokasi",
	"contact":  "Kontak",
	"review":   "Rating",
}

// entityOrder fixes the row order of synthesized tables
var entityOrder = []string{"price", "hours", "location", "contact", "review"}

const maxEntityValues = 3

// synthesizeSection composes a section from the scoped data, quoting real
// values verbatim. ok is false when the scope holds nothing to build from.
func synthesizeSection(spec model.SectionSpec, scope Scope, topic string, kg model.KnowledgeGraph) (string, bool) {
	var sentences []string

	for _, name := range entityOrder {
		values := scope.Entities[name]
		if len(values) == 0 {
			continue
		}
		sentences = append(sentences, fmt.Sprintf("%s %s yang tercatat: %s.",
			entityLabels[name], topic, strings.Join(firstN(values, maxEntityValues), ", ")))
		if len(sentences) == 2 {
			break
		}
	}
	for _, f := range model.EnrichmentFields {
		if len(sentences) == 2 {
			break
		}
		if v := scope.Fields[f]; v != "" {
			sentences = append(sentences, ensureSentence(v))
		}
	}

	table := ""
	if spec.RequiresTable {
		table = entityTable(topic, scope, kg)
	}

	if len(sentences) == 0 && table == "" {
		return "", false
	}

	var b strings.Builder
	for _, s := range sentences {
		b.WriteString("<p>" + htmltext.Escape(s) + "</p>\n")
	}
	if table != "" {
		b.WriteString(table)
	}
	return strings.TrimSpace(b.String()), true
}

// entityTable builds a two-column table from the scoped entities, falling
// back to every entity group of the knowledge graph when the heading
// matched none, and to the primary location when there are no entities
func entityTable(topic string, scope Scope, kg model.KnowledgeGraph) string {
	groups := scope.Entities
	if len(groups) == 0 {
		groups = map[string][]string{
			"price":    kg.Entities.Prices,
			"hours":    kg.Entities.OpeningHours,
			"location": kg.Entities.Locations,
			"contact":  kg.Entities.Contacts,
			"review":   kg.Entities.Ratings,
		}
	}

	var rows []string
	for _, name := range entityOrder {
		values := groups[name]
		if len(values) == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>",
			entityLabels[name], htmltext.Escape(strings.Join(firstN(values, maxEntityValues), ", "))))
	}
	if len(rows) == 0 {
		loc := kg.PrimaryLocation()
		if loc == "" {
			return ""
		}
		rows = append(rows, fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", entityLabels["location"], htmltext.Escape(loc)))
	}

	return fmt.Sprintf("<table>\n<thead><tr><th>Informasi</th><th>%s</th></tr></thead>\n<tbody>\n%s\n</tbody>\n</table>",
		htmltext.Escape(topic), strings.Join(rows, "\n"))
}

// fillerSection is the last resort: topic-agnostic and always available
func fillerSection(spec model.SectionSpec) string {
	return fmt.Sprintf("<p>Bagian %s ini merangkum hal-hal penting yang perlu diketahui sebelum berkunjung. "+
		"Informasi dapat berubah sewaktu-waktu, jadi selalu periksa kabar terbaru dari pengelola.</p>",
		strings.ToLower(htmltext.Escape(spec.Heading)))
}

// synthesizeIntro opens the article from the summary and location
func synthesizeIntro(topic string, kg model.KnowledgeGraph) string {
	var sentences []string
	if v := kg.Field(model.FieldSummary); v != "" {
		sentences = append(sentences, ensureSentence(v))
	}
	if v := kg.Field(model.FieldUnique); v != "" {
		sentences = append(sentences, ensureSentence(v))
	}
	if loc := kg.PrimaryLocation(); loc != "" {
		sentences = append(sentences, fmt.Sprintf("Artikel ini membahas %s secara lengkap, mulai dari lokasi di %s, harga, hingga tips berkunjung.", topic, loc))
	}
	return paragraphs(sentences)
}

// synthesizeConclusion closes the article from tips and summary
func synthesizeConclusion(topic string, kg model.KnowledgeGraph) string {
	sentences := []string{fmt.Sprintf("%s layak masuk daftar kunjungan Anda berikutnya.", topic)}
	if v := kg.Field(model.FieldTips); v != "" {
		sentences = append(sentences, ensureSentence(v))
	}
	sentences = append(sentences, "Rencanakan perjalanan dengan baik agar pengalaman Anda semakin berkesan.")
	return paragraphs(sentences)
}

func fillerIntro(topic string) string {
	return fmt.Sprintf("<p>Sedang mencari informasi tentang %s? Berikut rangkuman lengkap yang bisa membantu Anda "+
		"merencanakan kunjungan dengan lebih baik dan tanpa repot.</p>", htmltext.Escape(topic))
}

func fillerConclusion(topic string) string {
	return fmt.Sprintf("<p>Semoga ulasan tentang %s ini bermanfaat. Jangan lupa untuk selalu memeriksa informasi "+
		"terbaru sebelum berangkat dan nikmati perjalanan Anda.</p>", htmltext.Escape(topic))
}

func paragraphs(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return "<p>" + htmltext.Escape(strings.Join(sentences, " ")) + "</p>"
}

func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
