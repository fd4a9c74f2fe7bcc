package research

import (
	"regexp"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

var (
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Rp\.?|IDR|USD|US\$)\s?\d[\d.,]*(?:\s?(?:ribu|juta|rb|k)\b)?`),
		regexp.MustCompile(`[$€]\s?\d[\d.,]*`),
	}

	clock       = `(?:[01]?\d|2[0-3])[.:][0-5]\d`
	zone        = `(?:\s?(?:WIB|WITA|WIT))?`
	hourPattern = regexp.MustCompile(`\b` + clock + zone + `\s*(?:-|–|—|to|until|sampai|hingga|s/d)\s*` + clock + zone)
	allDay      = regexp.MustCompile(`(?i)\b(?:24\s?jam|24\s?hours|open 24/7)\b`)

	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:Jl\.|Jln\.|Jalan)\s+[A-Z0-9][\w'.-]*(?:\s+[A-Z0-9][\w'./-]*){0,6}`),
		regexp.MustCompile(`\b[A-Z][\w'-]*(?:\s+[A-Z][\w'-]*){0,3}\s+Street\b`),
		regexp.MustCompile(`(?i:address|alamat)\s*:\s*[^\n.;]{5,80}`),
	}

	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:Kabupaten|Kab\.|Kota|Provinsi|Kecamatan|Desa)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}`),
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}\s+(?:Regency|Province|District)\b`),
	}

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:\+62|\b0)\d{2,4}[\s.-]?\d{3,4}[\s.-]?\d{3,5}\b`),
		regexp.MustCompile(`\(0\d{2,3}\)\s?\d{3,4}[\s.-]?\d{3,4}\b`),
	}
	emailPattern = regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[\w.-]+\b`)

	ratingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[0-5](?:[.,]\d)?\s?/\s?5\b`),
		regexp.MustCompile(`(?i)\b[0-5](?:[.,]\d)?\s?(?:stars?|bintang)\b`),
	}

	factUnits = regexp.MustCompile(`(?i)(?:%|\b(?:meter|m|km|kilometer|mdpl|hektar|hectares?|ha|tahun|years?|abad|century|menit|minutes?|jam|hours?|persen|percent|orang|people|pengunjung|visitors)\b)`)
	digit     = regexp.MustCompile(`\d`)
)

// provinces is matched as whole words when no explicit administrative
// prefix is present
var provinces = []string{
	"Aceh", "Sumatera Utara", "Sumatera Barat", "Riau", "Kepulauan Riau", "Jambi",
	"Sumatera Selatan", "Bangka Belitung", "Bengkulu", "Lampung", "Banten",
	"DKI Jakarta", "Jakarta", "Jawa Barat", "Jawa Tengah", "Yogyakarta",
	"Jawa Timur", "Bali", "Nusa Tenggara Barat", "Nusa Tenggara Timur", "Lombok",
	"Kalimantan Barat", "Kalimantan Tengah", "Kalimantan Selatan",
	"Kalimantan Timur", "Kalimantan Utara", "Sulawesi Utara", "Sulawesi Tengah",
	"Sulawesi Selatan", "Sulawesi Tenggara", "Gorontalo", "Sulawesi Barat",
	"Maluku", "Maluku Utara", "Papua", "Papua Barat",
}

var provincePatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(provinces))
	for i, p := range provinces {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	return out
}()

const maxFactsPerSource = 10

// ExtractEntities runs every entity extractor over plain text
func ExtractEntities(text string) model.Entities {
	var e model.Entities

	for _, re := range pricePatterns {
		e.Prices = model.AppendUnique(e.Prices, findAll(re, text)...)
	}

	e.OpeningHours = model.AppendUnique(e.OpeningHours, findAll(hourPattern, text)...)
	for _, m := range findAll(allDay, text) {
		e.OpeningHours = model.AppendUnique(e.OpeningHours, strings.ToLower(m))
	}

	for _, re := range addressPatterns {
		e.Locations = model.AppendUnique(e.Locations, findAll(re, text)...)
	}
	for _, re := range areaPatterns {
		e.Locations = model.AppendUnique(e.Locations, findAll(re, text)...)
	}
	e.Locations = model.AppendUnique(e.Locations, FindProvinces(text)...)

	for _, re := range phonePatterns {
		e.Contacts = model.AppendUnique(e.Contacts, findAll(re, text)...)
	}
	e.Contacts = model.AppendUnique(e.Contacts, findAll(emailPattern, text)...)

	for _, re := range ratingPatterns {
		e.Ratings = model.AppendUnique(e.Ratings, findAll(re, text)...)
	}

	return e
}

// FindProvinces returns the known Indonesian provinces mentioned in text
func FindProvinces(text string) []string {
	var found []string
	for i, re := range provincePatterns {
		if re.MatchString(text) {
			found = model.AppendUnique(found, provinces[i])
		}
	}
	return found
}

// ExtractFacts returns sentences that carry a number together with a unit
// word (heights, distances, years, durations, headcounts)
func ExtractFacts(text string) []string {
	var facts []string
	for _, s := range splitSentences(text) {
		if digit.MatchString(s) && factUnits.MatchString(s) {
			facts = model.AppendUnique(facts, s)
			if len(facts) == maxFactsPerSource {
				break
			}
		}
	}
	return facts
}

// findAll returns normalized matches: inner whitespace collapsed and
// trailing punctuation removed
func findAll(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		m = strings.Join(strings.Fields(m), " ")
		m = strings.TrimRight(m, ".,;:-")
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
