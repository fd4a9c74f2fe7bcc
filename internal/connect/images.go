package connect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

// MaxImages caps suggestions, hero included
const MaxImages = 7

// imageWorthy headings get their own image; term is added to the searches
var imageWorthy = []struct {
	pattern *regexp.Regexp
	term    string
}{
	{regexp.MustCompile(`(?i)lokasi|location|rute|akses|alamat`), "lokasi"},
	{regexp.MustCompile(`(?i)aktivitas|activit|kegiatan|things`), "aktivitas"},
	{regexp.MustCompile(`(?i)fasilitas|facilit`), "fasilitas"},
	{regexp.MustCompile(`(?i)\btips?\b`), "pengunjung"},
	{regexp.MustCompile(`(?i)kuliner|makan|food|menu`), "kuliner"},
	{regexp.MustCompile(`(?i)sekitar|nearby|attraction|destinasi`), "wisata"},
}

// SuggestImages proposes a hero image plus one per image-worthy heading
func SuggestImages(topic string, kg model.KnowledgeGraph, doc model.ArticleDocument) []model.ImageSuggestion {
	loc := kg.PrimaryLocation()
	images := []model.ImageSuggestion{{
		Placement: "hero",
		Keywords:  rankKeywords(topic, topic+" pemandangan", loc+" wisata"),
		AltText:   fmt.Sprintf("Pemandangan %s", topic),
	}}

	for _, sec := range doc.Sections {
		if len(images) == MaxImages {
			break
		}
		for _, w := range imageWorthy {
			if !w.pattern.MatchString(sec.Heading) {
				continue
			}
			images = append(images, model.ImageSuggestion{
				Placement: "section",
				Heading:   sec.Heading,
				Keywords:  rankKeywords(topic+" "+w.term, sec.Heading, loc+" "+w.term, topic),
				AltText:   fmt.Sprintf("%s - %s", sec.Heading, topic),
			})
			break
		}
	}
	return images
}

// rankKeywords keeps candidates in order, dropping blanks and duplicates,
// and returns between two and four of them
func rankKeywords(candidates ...string) []string {
	var out []string
	for _, c := range candidates {
		c = strings.Join(strings.Fields(c), " ")
		if c == "" {
			continue
		}
		out = model.AppendUnique(out, c)
	}
	if len(out) == 1 {
		out = append(out, out[0]+" indonesia")
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}
