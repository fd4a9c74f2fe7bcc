package connect

import (
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/search"
)

// Tag bounds
const (
	MinTags = 3
	MaxTags = 10
)

// locationCategories maps a place keyword to its category
var locationCategories = []struct {
	keyword  string
	category string
}{
	{"labuan bajo", "Wisata Nusa Tenggara Timur"},
	{"raja ampat", "Wisata Papua"},
	{"yogyakarta", "Wisata Yogyakarta"},
	{"jogja", "Wisata Yogyakarta"},
	{"jakarta", "Wisata Jakarta"},
	{"bandung", "Wisata Jawa Barat"},
	{"bogor", "Wisata Jawa Barat"},
	{"malang", "Wisata Jawa Timur"},
	{"surabaya", "Wisata Jawa Timur"},
	{"bromo", "Wisata Jawa Timur"},
	{"semarang", "Wisata Jawa Tengah"},
	{"lombok", "Wisata Lombok"},
	{"bali", "Wisata Bali"},
	{"medan", "Wisata Sumatera Utara"},
	{"toba", "Wisata Sumatera Utara"},
	{"padang", "Wisata Sumatera Barat"},
	{"makassar", "Wisata Sulawesi Selatan"},
}

var typeCategories = map[model.ContentType]string{
	model.ContentDestination: "Destinasi Wisata",
	model.ContentFood:        "Kuliner",
	model.ContentLodging:     "Penginapan",
	model.ContentActivity:    "Aktivitas Wisata",
}

var typeTags = map[model.ContentType][]string{
	model.ContentDestination: {"tempat wisata", "liburan", "destinasi"},
	model.ContentFood:        {"kuliner", "tempat makan", "makanan khas"},
	model.ContentLodging:     {"penginapan", "hotel", "akomodasi"},
	model.ContentActivity:    {"aktivitas", "petualangan", "liburan"},
}

// Classify picks the category and tags for an article
func Classify(topic string, kg model.KnowledgeGraph, categories []search.Category) model.Taxonomy {
	tax := model.Taxonomy{Category: typeCategories[kg.ContentType]}
	if tax.Category == "" {
		tax.Category = typeCategories[model.ContentDestination]
	}

	terms := SearchTerms(topic)
	typeName := tax.Category
	matched := false
	for _, c := range categories {
		if sharesWord(c.Name, terms) || strings.EqualFold(c.Name, typeName) {
			tax.Category, tax.CategoryID = c.Name, c.ID
			matched = true
			break
		}
	}

	if !matched {
		haystack := strings.ToLower(topic + " " + strings.Join(kg.Entities.Locations, " "))
		for _, lc := range locationCategories {
			if strings.Contains(haystack, lc.keyword) {
				tax.Category = lc.category
				break
			}
		}
	}

	tax.Tags = Tags(topic, kg)
	return tax
}

// Tags builds 3-10 deduplicated lowercase tags from the topic, the content
// type and the LSI keywords
func Tags(topic string, kg model.KnowledgeGraph) []string {
	var tags []string
	add := func(values ...string) {
		for _, v := range values {
			tags = model.AppendUnique(tags, strings.ToLower(strings.TrimSpace(v)))
		}
	}

	add(topic)
	add(model.TopicKeywords(topic)...)
	defaults := typeTags[kg.ContentType]
	if len(defaults) == 0 {
		defaults = typeTags[model.ContentDestination]
	}
	add(defaults...)
	add(kg.LSIKeywords()...)

	if len(tags) < MinTags {
		add("wisata indonesia", "panduan wisata", "liburan")
	}
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}
