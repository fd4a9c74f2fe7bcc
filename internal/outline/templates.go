package outline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

type templateSection struct {
	heading     string // %s is replaced with the topic
	paragraphs  int
	format      model.SectionFormat
	instruction string
}

type template struct {
	title    string
	meta     string
	sections []templateSection
	closing  string
}

var destinationTemplate = template{
	title: "Panduan Lengkap Wisata %s",
	meta:  "Panduan wisata %s: lokasi, harga tiket, jam buka, fasilitas, aktivitas seru, dan tips berkunjung terbaru.",
	sections: []templateSection{
		{"Sekilas Tentang %s", 2, model.FormatParagraph, "Describe what the place is and why it is popular."},
		{"Lokasi dan Rute Menuju %s", 2, model.FormatList, "Explain where it is and list the ways to get there."},
		{"Harga Tiket dan Jam Buka %s", 1, model.FormatTable, "Give ticket prices and opening hours in a table."},
		{"Fasilitas di %s", 2, model.FormatList, "List the facilities available."},
		{"Aktivitas Seru di %s", 2, model.FormatMixed, "Describe the main things to do."},
		{"Tips Berkunjung ke %s", 2, model.FormatList, "Give practical visiting tips."},
	},
	closing: "Summarize why %s is worth visiting and invite readers to plan a trip.",
}

var foodTemplate = template{
	title: "Review %s Menu dan Harga Terbaru",
	meta:  "Review %s: menu andalan, daftar harga, lokasi, jam buka, suasana, dan tips sebelum datang.",
	sections: []templateSection{
		{"Mengenal %s", 2, model.FormatParagraph, "Introduce the place and its specialty."},
		{"Menu Andalan %s", 2, model.FormatList, "List the signature dishes and drinks."},
		{"Daftar Harga Menu %s", 1, model.FormatTable, "Give menu prices in a table."},
		{"Lokasi dan Jam Buka %s", 2, model.FormatParagraph, "Explain the address and opening hours."},
		{"Suasana dan Pelayanan", 2, model.FormatParagraph, "Describe the ambience and service."},
		{"Tips Makan di %s", 2, model.FormatList, "Give practical tips for diners."},
	},
	closing: "Summarize what makes %s worth trying.",
}

var lodgingTemplate = template{
	title: "Review %s Harga Kamar dan Fasilitas",
	meta:  "Review %s: tipe kamar, harga per malam, fasilitas, lokasi, dan tips menginap agar liburan makin nyaman.",
	sections: []templateSection{
		{"Sekilas Tentang %s", 2, model.FormatParagraph, "Introduce the property and its style."},
		{"Tipe Kamar dan Harga %s", 1, model.FormatTable, "Give room types and nightly prices in a table."},
		{"Fasilitas %s", 2, model.FormatList, "List the facilities."},
		{"Lokasi dan Akses", 2, model.FormatParagraph, "Explain the location and nearby landmarks."},
		{"Kelebihan dan Kekurangan", 2, model.FormatMixed, "Weigh pros and cons honestly."},
		{"Tips Menginap di %s", 2, model.FormatList, "Give practical tips for guests."},
	},
	closing: "Summarize who %s suits best.",
}

var genericTemplate = template{
	title: "Panduan %s Lengkap dan Terbaru",
	meta:  "Semua yang perlu Anda ketahui tentang %s: informasi lengkap, harga, lokasi, dan tips praktis.",
	sections: []templateSection{
		{"Apa Itu %s", 2, model.FormatParagraph, "Explain the topic."},
		{"Informasi Penting %s", 2, model.FormatList, "List the key facts."},
		{"Harga dan Jadwal %s", 1, model.FormatTable, "Give prices and schedules in a table."},
		{"Pengalaman yang Ditawarkan", 2, model.FormatMixed, "Describe what visitors experience."},
		{"Tips Sebelum Mencoba %s", 2, model.FormatList, "Give practical tips."},
	},
	closing: "Summarize the key points about %s.",
}

// Template returns the static outline for a content type with the topic
// filled in. Activity topics use the generic template.
func Template(kind model.ContentType, topic string) model.Blueprint {
	t := genericTemplate
	switch kind {
	case model.ContentDestination:
		t = destinationTemplate
	case model.ContentFood:
		t = foodTemplate
	case model.ContentLodging:
		t = lodgingTemplate
	}
	return t.render(topic)
}

func (t template) render(topic string) model.Blueprint {
	bp := model.Blueprint{
		Title:              fill(t.title, topic),
		MetaDescription:    fill(t.meta, topic),
		ClosingInstruction: fill(t.closing, topic),
		Source:             model.BlueprintTemplate,
	}
	for _, s := range t.sections {
		bp.Sections = append(bp.Sections, model.NewSectionSpec(fill(s.heading, topic), s.paragraphs, s.format, s.instruction))
	}
	return bp
}

func fill(format, topic string) string {
	if !strings.Contains(format, "%s") {
		return format
	}
	return fmt.Sprintf(format, topic)
}
