package model

import "time"

// MetricScore is one transparent sub-score of an audit
type MetricScore struct {
	Score  int                    `json:"score"`          // 0-100
	Weight int                    `json:"weight"`         // Contribution to the weighted average
	Value  float64                `json:"value"`          // Raw measurement (words, percent, count)
	Note   string                 `json:"note,omitempty"` // Human-readable explanation
	Data   map[string]interface{} `json:"data,omitempty"` // Inputs behind the score
}

// SEOScore is the weighted SEO audit
type SEOScore struct {
	Score   int                    `json:"score"` // 0-100
	Details map[string]MetricScore `json:"details"`
}

// ReadabilityScore is the readability audit with its length statistics
type ReadabilityScore struct {
	Score             int                    `json:"score"` // 0-100
	AvgSentenceWords  float64                `json:"avg_sentence_words"`
	AvgParagraphWords float64                `json:"avg_paragraph_words"`
	Sentences         int                    `json:"sentences"`
	Paragraphs        int                    `json:"paragraphs"`
	Details           map[string]MetricScore `json:"details"`
}

// ScoreReport bundles both audits
type ScoreReport struct {
	SEO         SEOScore         `json:"seo"`
	Readability ReadabilityScore `json:"readability"`
}

// Taxonomy is the category and tags assigned to an article
type Taxonomy struct {
	Category   string   `json:"category"`
	CategoryID string   `json:"category_id,omitempty"` // Set when matched against an existing category
	Tags       []string `json:"tags"`
}

// ImageSuggestion proposes one image slot
type ImageSuggestion struct {
	Placement string   `json:"placement"` // "hero" or "section"
	Heading   string   `json:"heading,omitempty"`
	Keywords  []string `json:"keywords"` // Ranked search candidates
	AltText   string   `json:"alt_text"`
}

// FormatStats counts rich elements in the formatted article
type FormatStats struct {
	Bold        int `json:"bold"`
	Italic      int `json:"italic"`
	Tables      int `json:"tables"`
	Lists       int `json:"lists"`
	Blockquotes int `json:"blockquotes"`
	Headings    int `json:"headings"`
	Dividers    int `json:"dividers"`
	Callouts    int `json:"callouts"`
}

// StageOutcome records how one stage finished
type StageOutcome struct {
	Name      string        `json:"name"`
	Completed bool          `json:"completed"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// PipelineResult is everything a job runner needs from one run
type PipelineResult struct {
	RunID            string            `json:"run_id"`
	Topic            string            `json:"topic"`
	FinalHTML        string            `json:"final_html"`
	Title            string            `json:"title"`
	MetaDescription  string            `json:"meta_description"`
	WordCount        int               `json:"word_count"`
	SEOScore         int               `json:"seo_score"`
	ReadabilityScore int               `json:"readability_score"`
	Scores           ScoreReport       `json:"scores"`
	Taxonomy         Taxonomy          `json:"taxonomy"`
	ImageSuggestions []ImageSuggestion `json:"image_suggestions"`
	FormatStats      FormatStats       `json:"format_stats"`
	StageLog         []string          `json:"stage_log"`
	StagesCompleted  int               `json:"stages_completed"` // 0-7
	Stages           []StageOutcome    `json:"stages"`
	StartedAt        time.Time         `json:"started_at"`
	Duration         time.Duration     `json:"duration"`
}
