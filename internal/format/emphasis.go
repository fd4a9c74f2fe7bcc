package format

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/hyperion/internal/htmltext"
	"github.com/ppiankov/hyperion/internal/model"
)

// MaxBoldPerSection caps keyword emphasis inside one section
const MaxBoldPerSection = 4

var contentTypeTerms = map[model.ContentType][]string{
	model.ContentDestination: {"tiket masuk", "jam buka", "spot foto", "pemandangan"},
	model.ContentFood:        {"menu andalan", "harga menu", "cita rasa", "kuliner"},
	model.ContentLodging:     {"harga kamar", "fasilitas", "check-in", "sarapan"},
	model.ContentActivity:    {"paket", "pemandu", "durasi", "peralatan"},
}

var genericTerms = []string{
	"harga tiket", "jam operasional", "lokasi", "rute", "tips", "wisatawan", "liburan",
}

// loanwords are italicized once each
var loanwords = []string{
	"check-in", "check-out", "homestay", "snorkeling", "diving", "surfing",
	"rafting", "trekking", "sunset", "sunrise", "spot", "view", "hidden gem",
	"backpacker", "itinerary", "rooftop", "glamping", "staycation", "booking",
}

// Keywords builds the emphasis list for a topic, longest first so a
// phrase wins over the words inside it
func Keywords(topic string, kind model.ContentType) []string {
	var kws []string
	if t := strings.TrimSpace(topic); t != "" {
		kws = append(kws, t)
	}
	kws = model.AppendUnique(kws, model.TopicKeywords(topic)...)
	kws = model.AppendUnique(kws, contentTypeTerms[kind]...)
	kws = model.AppendUnique(kws, genericTerms...)

	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })
	return kws
}

type term struct {
	word    string
	pattern *regexp.Regexp
}

func compileTerms(words []string) []term {
	out := make([]term, 0, len(words))
	for _, w := range words {
		out = append(out, term{word: w, pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)})
	}
	return out
}

// wrapTerms wraps occurrences of terms in text runs with tag. Each term is
// wrapped at most once per call and at most limit times in total (limit
// <= 0 means unbounded). used carries terms already wrapped by earlier
// calls. Text inside headings, links and the skip elements is left alone.
func wrapTerms(s string, terms []term, tag string, limit int, used map[string]bool, skip ...string) (string, int) {
	tokens := htmltext.Tokenize(s)
	count := 0

	htmltext.Walk(tokens, func(tok *htmltext.Token, stack *htmltext.Stack) {
		if stack.InsideHeading() || stack.Inside("a") || stack.Inside(skip...) {
			return
		}
		text := tok.Raw
		var b strings.Builder
		for text != "" {
			if limit > 0 && count >= limit {
				break
			}
			start, end, word := -1, -1, ""
			for _, t := range terms {
				if used[strings.ToLower(t.word)] {
					continue
				}
				if loc := t.pattern.FindStringIndex(text); loc != nil && (start < 0 || loc[0] < start) {
					start, end, word = loc[0], loc[1], t.word
				}
			}
			if start < 0 {
				break
			}
			b.WriteString(text[:start])
			b.WriteString("<" + tag + ">" + text[start:end] + "</" + tag + ">")
			text = text[end:]
			used[strings.ToLower(word)] = true
			count++
		}
		b.WriteString(text)
		tok.Raw = b.String()
	})

	return htmltext.Render(tokens), count
}

var classes = map[string]string{
	"table": "article-table",
	"ul":    "article-list",
	"ol":    "article-list numbered",
}

// addClasses gives tables and lists a presentational class unless they
// already carry one
func addClasses(s string) string {
	tokens := htmltext.Tokenize(s)
	for i, t := range tokens {
		class, ok := classes[t.Name]
		if !ok || t.Kind != htmltext.Tag || t.Closing || strings.Contains(t.Raw, "class=") {
			continue
		}
		tokens[i].Raw = "<" + t.Name + ` class="` + class + `"` + t.Raw[1+len(t.Name):]
	}
	return htmltext.Render(tokens)
}

var calloutPattern = regexp.MustCompile(`(?is)<p>(\s*(?:<(?:strong|b|em)>)?\s*(note|tip|tips|catatan|penting)\s*:.*?)</p>`)

// callouts turns "Note:"/"Tip:" paragraphs into callout blockquotes
func callouts(s string) (string, int) {
	count := 0
	var b strings.Builder
	last := 0
	for _, m := range calloutPattern.FindAllStringSubmatchIndex(s, -1) {
		if strings.Contains(lastTag(s[:m[0]]), "callout") {
			continue
		}
		kind := "note"
		switch strings.ToLower(s[m[4]:m[5]]) {
		case "tip", "tips":
			kind = "tip"
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(`<blockquote class="callout callout-` + kind + `"><p>` + s[m[2]:m[3]] + `</p></blockquote>`)
		last = m[1]
		count++
	}
	b.WriteString(s[last:])
	return b.String(), count
}

// lastTag returns the last tag in s, ignoring trailing whitespace
func lastTag(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ">") {
		return ""
	}
	if i := strings.LastIndex(s, "<"); i >= 0 {
		return s[i:]
	}
	return ""
}
