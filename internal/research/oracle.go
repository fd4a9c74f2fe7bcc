// Package research is the first pipeline stage: it discovers source pages
// for a topic, extracts entities from them and builds the knowledge graph
// every later stage draws on.
package research

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/research/adapters"
	"github.com/ppiankov/hyperion/internal/resolve"
	"github.com/ppiankov/hyperion/internal/search"
)

const (
	// GenerativeSourceLabel marks the overview written by the backend when
	// too few real sources were usable
	GenerativeSourceLabel = "generative-overview"

	// PlaceholderSourceLabel marks the synthetic source used when nothing
	// else produced text
	PlaceholderSourceLabel = "placeholder"

	// candidateFactor bounds discovery: stop searching once this many
	// candidates per wanted source are queued
	candidateFactor = 3
)

// Researcher runs the research stage
type Researcher struct {
	backend   llm.Backend
	fetcher   *Fetcher
	engines   []Engine
	registry  *adapters.Registry
	authority *AuthorityClassifier
	content   search.ContentSearch
	cfg       model.ResearchConfig
	timeouts  model.TimeoutConfig
	logger    *zap.Logger
}

// NewResearcher wires a researcher. content may be nil.
func NewResearcher(cfg model.PipelineConfig, backend llm.Backend, fetcher *Fetcher, content search.ContentSearch, logger *zap.Logger) *Researcher {
	if backend == nil {
		backend = llm.BackendFunc(func(context.Context, string) (string, error) { return "", llm.ErrNoProviders })
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Researcher{
		backend:   backend,
		fetcher:   fetcher,
		engines:   EnginesByName(cfg.Research.Engines),
		registry:  adapters.NewRegistry(),
		authority: NewAuthorityClassifier(DefaultAuthorityConfig()),
		content:   content,
		cfg:       cfg.Research,
		timeouts:  cfg.Timeouts,
		logger:    logger.Named("oracle"),
	}
}

// WithEngines replaces the search engines, in priority order
func (r *Researcher) WithEngines(engines ...Engine) *Researcher {
	r.engines = engines
	return r
}

// Result is the research stage output
type Result struct {
	Graph      model.KnowledgeGraph
	Candidates []string // Every URL considered, in discovery order
	Log        []string
}

// Run researches topic. It never fails: per-source errors are logged and
// skipped, and scarce data degrades to generated or placeholder sources.
func (r *Researcher) Run(ctx context.Context, topic string) Result {
	trail := model.NewTrail("oracle")
	kg := model.KnowledgeGraph{Topic: topic}

	candidates := r.discover(ctx, topic, trail)
	var corpus strings.Builder

	attempts := 0
	for _, link := range candidates {
		if attempts >= r.cfg.MaxSources {
			break
		}
		attempts++

		doc, content, ok := r.readSource(ctx, link, trail)
		if !ok {
			continue
		}
		kg.SourceDocuments = append(kg.SourceDocuments, doc)
		kg.HeadingsSeen = model.AppendUnique(kg.HeadingsSeen, content.Headings...)
		r.absorb(&kg, content.Text)
		corpus.WriteString(content.Text)
		corpus.WriteString("\n")
	}
	trail.Logf("%d usable sources out of %d fetch attempts", len(kg.SourceDocuments), attempts)

	if len(kg.SourceDocuments) < r.cfg.MinUsableSources {
		if overview, ok := r.overview(ctx, topic, trail); ok {
			kg.SourceDocuments = append(kg.SourceDocuments, model.SourceDocument{
				SourceLabel: GenerativeSourceLabel,
				ExcerptText: truncateRunes(overview, r.cfg.ExcerptChars),
				Authority:   model.TierGenerated,
			})
			r.absorb(&kg, overview)
			corpus.WriteString(overview)
		}
	}

	if len(kg.SourceDocuments) == 0 {
		kg.SourceDocuments = append(kg.SourceDocuments, placeholderSource(topic))
		trail.Logf("no source material; using placeholder source")
	}
	if kg.Entities.Empty() {
		kg.Entities.Locations = model.AppendUnique(nil, placeholderLocations(topic)...)
		trail.Logf("no entities extracted; placeholder locations %v", kg.Entities.Locations)
	}

	r.authority.SortByAuthority(kg.SourceDocuments)
	kg.ContentType = InferContentType(topic, corpus.String())
	trail.Logf("content type %s; %d prices, %d hours, %d locations, %d contacts, %d ratings, %d facts",
		kg.ContentType, len(kg.Entities.Prices), len(kg.Entities.OpeningHours), len(kg.Entities.Locations),
		len(kg.Entities.Contacts), len(kg.Entities.Ratings), len(kg.KeyFacts))

	kg.Enrichment = r.Enrich(ctx, kg, trail)

	r.logger.Info("research complete",
		zap.String("topic", topic),
		zap.Int("sources", len(kg.SourceDocuments)),
		zap.String("content_type", string(kg.ContentType)))

	return Result{Graph: kg, Candidates: candidates, Log: trail.Lines()}
}

// discover gathers candidate URLs: existing site articles first, then
// search-engine results per query variant with engine fallback
func (r *Researcher) discover(ctx context.Context, topic string, trail *model.Trail) []string {
	var candidates []string
	want := r.cfg.MaxSources * candidateFactor

	if r.content != nil {
		sctx, cancel := context.WithTimeout(ctx, r.timeouts.Search)
		articles, err := r.content.Search(sctx, topic)
		cancel()
		if err != nil {
			trail.Logf("content index search failed: %v", err)
		}
		for _, a := range articles {
			candidates = model.AppendUnique(candidates, a.URL)
		}
		if len(articles) > 0 {
			trail.Logf("content index offered %d candidate(s)", len(articles))
		}
	}

	if r.fetcher == nil || len(r.engines) == 0 {
		trail.Logf("web discovery disabled")
		return candidates
	}

	for _, query := range QueryVariants(topic, r.cfg.MaxQueries) {
		if len(candidates) >= want {
			break
		}
		for _, engine := range r.engines {
			page, err := r.fetcher.SearchPage(ctx, engine.SearchURL(query))
			if err != nil {
				trail.Logf("%s search %q failed: %v", engine.Name(), query, err)
				r.logger.Debug("search failed", zap.String("engine", engine.Name()), zap.Error(err))
				continue
			}
			urls := ExtractResultURLs(page.HTML)
			if len(urls) == 0 {
				trail.Logf("%s search %q returned no results", engine.Name(), query)
				continue
			}
			candidates = model.AppendUnique(candidates, urls...)
			break
		}
	}

	if len(candidates) > want {
		candidates = candidates[:want]
	}
	trail.Logf("discovered %d candidate URL(s)", len(candidates))
	return candidates
}

// readSource fetches and extracts one page, rejecting short text
func (r *Researcher) readSource(ctx context.Context, link string, trail *model.Trail) (model.SourceDocument, adapters.Content, bool) {
	if r.fetcher == nil {
		return model.SourceDocument{}, adapters.Content{}, false
	}

	page, err := r.fetcher.Get(ctx, link)
	if err != nil {
		trail.Logf("skip %s: %v", link, err)
		r.logger.Debug("source fetch failed", zap.String("url", link), zap.Error(err))
		return model.SourceDocument{}, adapters.Content{}, false
	}

	content, adapterName, err := r.registry.Extract(page.HTML, page.FinalURL)
	if err != nil {
		trail.Logf("skip %s: %v", link, err)
		return model.SourceDocument{}, adapters.Content{}, false
	}
	if n := utf8.RuneCountInString(content.Text); n < r.cfg.MinSourceChars {
		trail.Logf("skip %s: only %d chars of text", link, n)
		return model.SourceDocument{}, adapters.Content{}, false
	}

	trail.Logf("read %s via %s adapter (%d chars)", link, adapterName, utf8.RuneCountInString(content.Text))
	return model.SourceDocument{
		SourceLabel: sourceLabel(page.FinalURL),
		ExcerptText: truncateRunes(content.Text, r.cfg.ExcerptChars),
		URL:         page.FinalURL,
		Authority:   r.authority.Classify(page.FinalURL),
	}, content, true
}

// absorb merges the entities and facts found in text into kg
func (r *Researcher) absorb(kg *model.KnowledgeGraph, text string) {
	kg.Entities.Merge(ExtractEntities(text))
	kg.KeyFacts = model.AppendUnique(kg.KeyFacts, ExtractFacts(text)...)
}

// OverviewPrompt asks for the stand-in source used when research is thin
func OverviewPrompt(topic string) string {
	return fmt.Sprintf("Write a factual overview of about 500 words about %q for travellers, in Bahasa Indonesia. "+
		"Cover location and access, ticket prices, opening hours, facilities, activities and tips. "+
		"Mention concrete prices (Rp), hours and place names when known. Plain text only.", topic)
}

// overview asks the backend for a ~500-word stand-in source
func (r *Researcher) overview(ctx context.Context, topic string, trail *model.Trail) (string, bool) {
	res := resolve.Resolver[string]{
		Generate: func(ctx context.Context) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, r.timeouts.Enrichment)
			defer cancel()
			return r.backend.Generate(ctx, OverviewPrompt(topic))
		},
		Accept: resolve.MinTextLength(r.cfg.MinSourceChars),
	}.Resolve(ctx)

	if res.Tier != resolve.TierGenerated {
		trail.Logf("generative overview unavailable: %v", res.Err)
		return "", false
	}
	trail.Logf("added %s source (%d words)", GenerativeSourceLabel, len(strings.Fields(res.Value)))
	return strings.TrimSpace(res.Value), true
}

func placeholderSource(topic string) model.SourceDocument {
	return model.SourceDocument{
		SourceLabel: PlaceholderSourceLabel,
		ExcerptText: fmt.Sprintf("%s adalah tujuan yang banyak dicari wisatawan. Informasi rinci mengenai harga, "+
			"jam buka, dan fasilitas sebaiknya dikonfirmasi langsung sebelum berkunjung.", topic),
		Authority: model.TierGenerated,
	}
}

// placeholderLocations guesses a place from the topic: known provinces
// first, otherwise the topic itself
func placeholderLocations(topic string) []string {
	if found := FindProvinces(topic); len(found) > 0 {
		return found
	}
	return []string{strings.TrimSpace(topic)}
}

func sourceLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
