package expand

import (
	"fmt"
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// Headings of the deterministic blocks, also used to detect them
const (
	faqHeading        = "FAQ: Pertanyaan yang Sering Diajukan"
	nearbyHeading     = "Destinasi Menarik di Sekitar %s"
	experienceHeading = "Pengalaman Berkunjung ke %s"
	extraHeading      = "Informasi Tambahan tentang %s"
)

type qa struct {
	question string
	answer   string
}

// faqBlock answers five stock questions, quoting real entities when known
func faqBlock(topic string, kg model.KnowledgeGraph) model.ArticleSection {
	e := kg.Entities
	loc := kg.PrimaryLocation()

	pairs := []qa{
		{
			question: fmt.Sprintf("Di mana lokasi %s?", topic),
			answer:   fmt.Sprintf("%s berada di %s. Gunakan aplikasi peta untuk rute tercepat dari penginapan Anda.", topic, orDefault(loc, "kawasan yang mudah dijangkau")),
		},
		{
			question: fmt.Sprintf("Berapa harga tiket masuk %s?", topic),
			answer:   answerFrom(e.Prices, "Harga yang tercatat adalah %s.", "Harga dapat berubah sewaktu-waktu, jadi periksa informasi terbaru sebelum berangkat."),
		},
		{
			question: fmt.Sprintf("Kapan jam buka %s?", topic),
			answer:   answerFrom(e.OpeningHours, "Jam operasional yang tercatat adalah %s.", "Sebagian besar tempat wisata buka sejak pagi hingga sore hari."),
		},
		{
			question: fmt.Sprintf("Kapan waktu terbaik mengunjungi %s?", topic),
			answer:   "Pagi hari dan menjelang sore biasanya lebih nyaman karena cuaca tidak terlalu panas dan pengunjung belum terlalu ramai.",
		},
		{
			question: fmt.Sprintf("Apa saja yang perlu dipersiapkan sebelum ke %s?", topic),
			answer:   orDefault(kg.Field(model.FieldTips), "Bawa air minum, pakaian yang nyaman, uang tunai secukupnya, dan kamera untuk mengabadikan momen."),
		},
	}

	var b strings.Builder
	b.WriteString("<h2>" + faqHeading + "</h2>\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "<h3>%s</h3>\n<p>%s</p>\n", htmltext.Escape(p.question), htmltext.Escape(p.answer))
	}
	return model.ArticleSection{Heading: faqHeading, ContentHTML: strings.TrimSpace(b.String())}
}

// nearbyBlock lists nearby places from the enrichment or generic suggestions
func nearbyBlock(topic string, kg model.KnowledgeGraph) model.ArticleSection {
	heading := fmt.Sprintf(nearbyHeading, topic)
	loc := orDefault(kg.PrimaryLocation(), topic)

	var b strings.Builder
	b.WriteString("<h2>" + htmltext.Escape(heading) + "</h2>\n")
	fmt.Fprintf(&b, "<p>Setelah puas menjelajahi %s, ada beberapa tempat lain di sekitar %s yang bisa Anda kunjungi dalam satu hari perjalanan.</p>\n",
		htmltext.Escape(topic), htmltext.Escape(loc))
	if v := kg.Field(model.FieldAttractions); v != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", htmltext.Escape(v))
	}
	b.WriteString("<ul>\n")
	for _, item := range []string{
		"Pusat kuliner lokal untuk mencicipi makanan khas daerah",
		"Pasar tradisional atau pusat oleh-oleh",
		"Tempat wisata alam terdekat seperti pantai, bukit, atau air terjun",
		"Situs budaya dan sejarah di kawasan yang sama",
	} {
		b.WriteString("<li>" + item + "</li>\n")
	}
	b.WriteString("</ul>\n")
	b.WriteString("<p>Susun rute kunjungan berdasarkan jarak agar waktu perjalanan lebih efisien dan Anda tidak kelelahan.</p>")

	return model.ArticleSection{Heading: heading, ContentHTML: b.String()}
}

// experienceBlock describes a typical visit
func experienceBlock(topic string, kg model.KnowledgeGraph) model.ArticleSection {
	heading := fmt.Sprintf(experienceHeading, topic)
	t := htmltext.Escape(topic)

	var b strings.Builder
	b.WriteString("<h2>" + htmltext.Escape(heading) + "</h2>\n")
	fmt.Fprintf(&b, "<p>Banyak pengunjung menggambarkan kunjungan ke %s sebagai pengalaman yang menyenangkan dan layak diulang. "+
		"Suasana yang khas membuat waktu terasa cepat berlalu.</p>\n", t)
	if v := kg.Field(model.FieldActivities); v != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", htmltext.Escape(v))
	}
	if len(kg.Entities.Ratings) > 0 {
		fmt.Fprintf(&b, "<p>Ulasan pengunjung memberikan penilaian %s, tanda bahwa tempat ini cukup memuaskan.</p>\n",
			htmltext.Escape(kg.Entities.Ratings[0]))
	}
	fmt.Fprintf(&b, "<p>Agar pengalaman Anda di %s maksimal, datanglah dengan rencana yang jelas, hormati aturan setempat, "+
		"dan luangkan waktu untuk berbincang dengan warga sekitar yang sering kali punya cerita menarik.</p>", t)

	return model.ArticleSection{Heading: heading, ContentHTML: b.String()}
}

// elaborationParagraphs are appended to the last body section in the final round
func elaborationParagraphs(topic string) string {
	t := htmltext.Escape(topic)
	return strings.Join([]string{
		fmt.Sprintf("<p>Selain hal-hal di atas, %s juga menarik untuk dikunjungi bersama keluarga maupun teman. "+
			"Setiap sudutnya menawarkan suasana berbeda yang bisa dinikmati dengan santai tanpa terburu-buru.</p>", t),
		fmt.Sprintf("<p>Bagi wisatawan yang baru pertama kali datang, %s bisa menjadi pengalaman yang berkesan. "+
			"Sempatkan untuk mencatat hal-hal kecil yang Anda temui, karena detail seperti itulah yang membuat perjalanan terasa istimewa.</p>", t),
		fmt.Sprintf("<p>Terakhir, selalu jaga kebersihan dan kelestarian lingkungan selama berada di %s. "+
			"Dengan begitu, keindahan tempat ini tetap bisa dinikmati oleh pengunjung berikutnya.</p>", t),
	}, "\n")
}

func answerFrom(values []string, format, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	n := len(values)
	if n > 2 {
		n = 2
	}
	return fmt.Sprintf(format, strings.Join(values[:n], ", "))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
