// Package connect is the last pipeline stage: it links the article to
// related published content and to a maps search, adds the disclaimer, and
// proposes a taxonomy and image placements.
package connect

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/search"
)

// Connector runs the linking stage
type Connector struct {
	index   search.ContentSearch
	siteURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewConnector creates a connector. A nil index behaves as an empty one.
func NewConnector(cfg model.PipelineConfig, index search.ContentSearch, logger *zap.Logger) *Connector {
	if index == nil {
		index = search.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connector{
		index:   index,
		siteURL: cfg.Writing.SiteURL,
		timeout: cfg.Timeouts.Search,
		logger:  logger.Named("connector"),
	}
}

// Result is the linking stage output
type Result struct {
	Document model.ArticleDocument
	Taxonomy model.Taxonomy
	Images   []model.ImageSuggestion
	Related  []Candidate
	Log      []string
}

// Run links, classifies and illustrates doc
func (c *Connector) Run(ctx context.Context, topic string, doc model.ArticleDocument, kg model.KnowledgeGraph) Result {
	trail := model.NewTrail("connector")
	out := doc.Clone()

	searchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	related := findRelated(searchCtx, c.index, topic, trail)
	trail.Logf("found %d related articles", len(related))

	linked := insertInlineLinks(&out, related)
	if len(linked) > 0 {
		trail.Logf("inline links: %s", strings.Join(linked, "; "))
	}

	anchor := kg.PrimaryLocation()
	if anchor == "" {
		anchor = topic
	}
	if insertAuthorityLink(&out, topic, anchor) {
		trail.Logf("maps link attached to %q", anchor)
	} else {
		trail.Logf("maps link appended as a paragraph")
	}

	block, placeholder := seeAlsoBlock(related, anchor, c.siteURL)
	if placeholder {
		trail.Logf("no related articles; see-also uses placeholder searches for %s", anchor)
	}
	out.ConclusionHTML = strings.TrimSpace(out.ConclusionHTML + "\n" + block + "\n" + Disclaimer)
	out.Assemble()

	categories, err := c.index.ListCategories(searchCtx)
	if err != nil {
		trail.Logf("list categories failed: %v", err)
	}
	tax := Classify(topic, kg, categories)
	trail.Logf("category %q, %d tags", tax.Category, len(tax.Tags))

	images := SuggestImages(topic, kg, out)
	trail.Logf("suggested %d images", len(images))

	c.logger.Info("linking complete",
		zap.String("topic", topic),
		zap.Int("related", len(related)),
		zap.Int("inline_links", len(linked)),
		zap.String("category", tax.Category))

	return Result{Document: out, Taxonomy: tax, Images: images, Related: related, Log: trail.Lines()}
}
