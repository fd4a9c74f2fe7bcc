package draft

import (
	"fmt"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

const formatRules = `Write valid HTML fragments only: <p>, <ul>/<ol>, <table>, <h3>. No markdown, no code fences, no <h1> or <h2>.`

// IntroPrompt asks for the article introduction
func IntroPrompt(topic string, bp model.Blueprint, kg model.KnowledgeGraph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the introduction (2 paragraphs, Bahasa Indonesia) of the article %q about %s.\n", bp.Title, topic)
	if v := kg.Field(model.FieldSummary); v != "" {
		fmt.Fprintf(&b, "Summary: %s\n", v)
	}
	if v := kg.Field(model.FieldUnique); v != "" {
		fmt.Fprintf(&b, "What makes it unique: %s\n", v)
	}
	if loc := kg.PrimaryLocation(); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	headings := make([]string, 0, len(bp.Sections))
	for _, s := range bp.Sections {
		headings = append(headings, s.Heading)
	}
	fmt.Fprintf(&b, "The article covers: %s\n", strings.Join(headings, "; "))
	b.WriteString("Hook the reader and mention the topic in the first sentence.\n")
	b.WriteString(formatRules)

	return b.String()
}

// SectionPrompt asks for one body section, restricted to the data scoped to it
func SectionPrompt(topic string, spec model.SectionSpec, scope Scope) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the section %q of a travel article about %s in Bahasa Indonesia.\n", spec.Heading, topic)
	fmt.Fprintf(&b, "Length: %d paragraphs.\n", spec.ParagraphCount)
	if spec.Instruction != "" {
		fmt.Fprintf(&b, "Instruction: %s\n", spec.Instruction)
	}
	switch {
	case spec.RequiresTable:
		b.WriteString("Include one HTML <table> with a header row summarizing the key data.\n")
	case spec.RequiresList:
		b.WriteString("Include one HTML list (<ul> or <ol>).\n")
	}

	if !scope.Empty() {
		b.WriteString("Use only these facts; quote prices, hours and addresses exactly as given:\n")
		for _, name := range entityOrder {
			if values := scope.Entities[name]; len(values) > 0 {
				fmt.Fprintf(&b, "- %s: %s\n", entityLabels[name], strings.Join(values, ", "))
			}
		}
		for _, f := range model.EnrichmentFields {
			if v := scope.Fields[f]; v != "" {
				fmt.Fprintf(&b, "- %s: %s\n", strings.ToLower(string(f)), v)
			}
		}
		if scope.Excerpt != "" {
			fmt.Fprintf(&b, "Source notes: %s\n", scope.Excerpt)
		}
	} else {
		b.WriteString("No verified data is available; stay general and do not invent prices or hours.\n")
	}
	b.WriteString(formatRules)

	return b.String()
}

// ConclusionPrompt asks for the closing section
func ConclusionPrompt(topic string, bp model.Blueprint, kg model.KnowledgeGraph) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the conclusion (1-2 paragraphs, Bahasa Indonesia) of a travel article about %s.\n", topic)
	if bp.ClosingInstruction != "" {
		fmt.Fprintf(&b, "Instruction: %s\n", bp.ClosingInstruction)
	}
	if v := kg.Field(model.FieldTips); v != "" {
		fmt.Fprintf(&b, "Tips to recall: %s\n", v)
	}
	b.WriteString("End with an invitation to visit.\n")
	b.WriteString(formatRules)

	return b.String()
}
