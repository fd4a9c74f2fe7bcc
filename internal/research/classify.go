package research

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

// contentKeywords maps each non-default content type to the words that
// suggest it. Destination is what remains.
var contentKeywords = []struct {
	kind     model.ContentType
	keywords []string
}{
	{model.ContentLodging, []string{"hotel", "villa", "resort", "homestay", "penginapan", "hostel", "guest house", "guesthouse", "glamping", "cottage", "losmen"}},
	{model.ContentFood, []string{"restoran", "restaurant", "warung", "cafe", "kafe", "kuliner", "makanan", "food", "resto", "rumah makan", "seafood", "kopi", "coffee", "bakso", "sate", "nasi"}},
	{model.ContentActivity, []string{"rafting", "arung jeram", "diving", "snorkeling", "snorkel", "surfing", "trekking", "hiking", "pendakian", "tour", "paragliding", "camping", "outbound", "kayak"}},
}

// minTextHits is how often a type's keywords must occur in source text for
// the text alone to decide the type
const minTextHits = 8

// InferContentType classifies a topic. Keywords in the topic itself win;
// otherwise the type whose keywords dominate the source text is used.
func InferContentType(topic, text string) model.ContentType {
	lowerTopic := " " + strings.ToLower(topic) + " "
	for _, ck := range contentKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lowerTopic, " "+kw+" ") {
				return ck.kind
			}
		}
	}

	lowerText := strings.ToLower(text)
	best, bestHits := model.ContentDestination, 0
	for _, ck := range contentKeywords {
		hits := 0
		for _, kw := range ck.keywords {
			hits += strings.Count(lowerText, kw)
		}
		if hits >= minTextHits && hits > bestHits {
			best, bestHits = ck.kind, hits
		}
	}
	return best
}

// AuthorityConfig lists domains per tier. Subdomains inherit their
// parent's tier.
type AuthorityConfig struct {
	OfficialDomains  []string
	ReferenceDomains []string
	DomainMap        map[string]string // host -> "official" | "reference" | "community"
	PathPatterns     []PathPattern
}

// PathPattern assigns a tier to URLs whose path matches
type PathPattern struct {
	Pattern string
	Tier    string
}

// DefaultAuthorityConfig covers Indonesian government and tourism sites
// and the large travel references
func DefaultAuthorityConfig() AuthorityConfig {
	return AuthorityConfig{
		OfficialDomains: []string{
			"go.id", "indonesia.travel", "kemenparekraf.go.id", "baliprov.go.id",
			"jakarta-tourism.go.id", "unesco.org",
		},
		ReferenceDomains: []string{
			"wikipedia.org", "wikivoyage.org", "lonelyplanet.com", "kompas.com",
			"detik.com", "tempo.co", "britannica.com", "indonesia.go.id",
		},
		PathPatterns: []PathPattern{
			{Pattern: `^/(wisata|pariwisata|tourism)/`, Tier: "reference"},
		},
	}
}

// AuthorityClassifier ranks source URLs so official and reference pages
// lead the knowledge graph's source list
type AuthorityClassifier struct {
	config       AuthorityConfig
	officialMap  map[string]bool
	referenceMap map[string]bool
	pathPatterns []*compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.AuthorityTier
}

// NewAuthorityClassifier creates a new authority classifier
func NewAuthorityClassifier(config AuthorityConfig) *AuthorityClassifier {
	classifier := &AuthorityClassifier{
		config:       config,
		officialMap:  make(map[string]bool),
		referenceMap: make(map[string]bool),
	}

	for _, domain := range config.OfficialDomains {
		classifier.officialMap[strings.ToLower(domain)] = true
	}
	for _, domain := range config.ReferenceDomains {
		classifier.referenceMap[strings.ToLower(domain)] = true
	}

	for _, pp := range config.PathPatterns {
		if re, err := regexp.Compile(pp.Pattern); err == nil {
			classifier.pathPatterns = append(classifier.pathPatterns, &compiledPattern{
				pattern: re,
				tier:    parseTier(pp.Tier),
			})
		}
	}

	return classifier
}

// Classify classifies a URL into an authority tier
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	if tier, ok := a.config.DomainMap[host]; ok {
		return parseTier(tier)
	}

	// Reference is checked first so indonesia.go.id is not swallowed by go.id
	if matchesDomain(host, a.referenceMap) {
		return model.TierReference
	}
	if matchesDomain(host, a.officialMap) {
		return model.TierOfficial
	}

	for _, cp := range a.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			return cp.tier
		}
	}

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".go.id") {
		return model.TierOfficial
	}

	return model.TierCommunity
}

// SortByAuthority orders sources official → reference → community →
// generated, keeping discovery order within a tier
func (a *AuthorityClassifier) SortByAuthority(docs []model.SourceDocument) {
	rank := func(t model.AuthorityTier) int {
		if t == model.TierUnknown {
			return int(model.TierGenerated) + 1
		}
		return int(t)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return rank(docs[i].Authority) < rank(docs[j].Authority)
	})
}

func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func parseTier(tier string) model.AuthorityTier {
	switch strings.ToLower(tier) {
	case "official", "1":
		return model.TierOfficial
	case "reference", "2":
		return model.TierReference
	default:
		return model.TierCommunity
	}
}
