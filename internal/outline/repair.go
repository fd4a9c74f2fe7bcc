package outline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/hyperion/internal/model"
)

const (
	maxTitleWords    = 8
	maxMetaRunes     = 160
	tableInsertIndex = 2
	defaultMinWords  = 1000
	wordRangeSpan    = 800
)

// tipsHeadings are appended, in order, while a blueprint is short of sections
var tipsHeadings = []string{
	"Tips Berkunjung ke %s",
	"Waktu Terbaik Berkunjung ke %s",
	"Persiapan Sebelum ke %s",
	"Hal yang Perlu Diperhatikan di %s",
	"Tips Tambahan untuk Pengunjung",
}

// Repair enforces the blueprint invariants whatever produced it. It
// returns the repaired copy and one note per change made.
func Repair(bp model.Blueprint, topic string, minWords int) (model.Blueprint, []string) {
	var notes []string
	out := bp
	out.Sections = append([]model.SectionSpec(nil), bp.Sections...)

	title := cleanTitle(bp.Title)
	if title == "" {
		title = cleanTitle("Panduan Lengkap " + topic)
	}
	if title != bp.Title {
		notes = append(notes, fmt.Sprintf("title normalized to %q", title))
	}
	out.Title = title

	for _, format := range tipsHeadings {
		if len(out.Sections) >= model.MinSections {
			break
		}
		heading := fill(format, topic)
		if hasHeading(out.Sections, heading) {
			continue
		}
		out.Sections = append(out.Sections, model.NewSectionSpec(heading, 2, model.FormatList,
			"Give practical visiting tips as a short list."))
		notes = append(notes, fmt.Sprintf("appended section %q", heading))
	}

	if !out.HasTableSection() {
		spec := model.NewSectionSpec(fill("Informasi Harga dan Jam Buka %s", topic), 1, model.FormatTable,
			"Summarize prices, opening hours and contacts in a table.")
		at := tableInsertIndex
		if at > len(out.Sections) {
			at = len(out.Sections)
		}
		out.Sections = append(out.Sections[:at], append([]model.SectionSpec{spec}, out.Sections[at:]...)...)
		notes = append(notes, fmt.Sprintf("spliced table section at position %d", at))
	}

	meta := strings.Join(strings.Fields(bp.MetaDescription), " ")
	if meta == "" {
		meta = fill("Panduan lengkap %s: lokasi, harga tiket, jam buka, fasilitas, dan tips berkunjung.", topic)
		notes = append(notes, "meta description filled")
	}
	if utf8.RuneCountInString(meta) > maxMetaRunes {
		meta = capRunes(meta, maxMetaRunes)
		notes = append(notes, "meta description shortened")
	}
	out.MetaDescription = meta

	if strings.TrimSpace(out.ClosingInstruction) == "" {
		out.ClosingInstruction = fill("Summarize the key points about %s and encourage a visit.", topic)
	}

	if minWords <= 0 {
		minWords = defaultMinWords
	}
	if out.TargetWordRange.Min <= 0 {
		out.TargetWordRange.Min = minWords
	}
	if out.TargetWordRange.Max < out.TargetWordRange.Min {
		out.TargetWordRange.Max = out.TargetWordRange.Min + wordRangeSpan
	}

	return out, notes
}

// cleanTitle keeps letters, digits and single spaces, capped at eight words
func cleanTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, title)

	words := strings.Fields(cleaned)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// capRunes cuts s to at most n runes on a word boundary
func capRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:-")
}

func hasHeading(sections []model.SectionSpec, heading string) bool {
	for _, s := range sections {
		if strings.EqualFold(s.Heading, heading) {
			return true
		}
	}
	return false
}
