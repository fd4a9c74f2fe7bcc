package model

import (
	"errors"
	"fmt"
)

// SectionFormat is the dominant rich element a section should carry
type SectionFormat string

const (
	FormatParagraph SectionFormat = "paragraph"
	FormatTable     SectionFormat = "table"
	FormatList      SectionFormat = "list"
	FormatMixed     SectionFormat = "mixed"
)

// ParseSectionFormat maps free text onto a known format, defaulting to paragraph
func ParseSectionFormat(s string) (SectionFormat, bool) {
	switch SectionFormat(s) {
	case FormatParagraph, FormatTable, FormatList, FormatMixed:
		return SectionFormat(s), true
	default:
		return FormatParagraph, false
	}
}

// MinSections is the fewest sections a blueprint may carry
const MinSections = 5

// MaxSections is the most sections the outline contract allows
const MaxSections = 7

// SectionSpec plans one body section
type SectionSpec struct {
	Heading        string        `json:"heading"`
	ParagraphCount int           `json:"paragraph_count"`
	Format         SectionFormat `json:"format"`
	Instruction    string        `json:"instruction,omitempty"`
	RequiresTable  bool          `json:"requires_table"`
	RequiresList   bool          `json:"requires_list"`
}

// NewSectionSpec derives the rich-element flags from the format
func NewSectionSpec(heading string, paragraphs int, format SectionFormat, instruction string) SectionSpec {
	if paragraphs < 1 {
		paragraphs = 2
	}
	return SectionSpec{
		Heading:        heading,
		ParagraphCount: paragraphs,
		Format:         format,
		Instruction:    instruction,
		RequiresTable:  format == FormatTable,
		RequiresList:   format == FormatList || format == FormatMixed,
	}
}

// WordRange is an inclusive target length
type WordRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BlueprintSource records where a blueprint came from
type BlueprintSource string

const (
	BlueprintGenerated BlueprintSource = "generated"
	BlueprintTemplate  BlueprintSource = "template"
)

// Blueprint is the planned outline an article must follow
type Blueprint struct {
	Title              string          `json:"title"`
	MetaDescription    string          `json:"meta_description"`
	Sections           []SectionSpec   `json:"sections"`
	ClosingInstruction string          `json:"closing_instruction"`
	TargetWordRange    WordRange       `json:"target_word_range"`
	Source             BlueprintSource `json:"source"`
}

var (
	ErrTooFewSections = errors.New("blueprint has too few sections")
	ErrNoTableSection = errors.New("blueprint has no table section")
	ErrEmptyTitle     = errors.New("blueprint has no title")
)

// Validate reports every structural rule the blueprint breaks
func (b Blueprint) Validate() error {
	var errs []error
	if b.Title == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if len(b.Sections) < MinSections {
		errs = append(errs, fmt.Errorf("%w: %d < %d", ErrTooFewSections, len(b.Sections), MinSections))
	}
	if !b.HasTableSection() {
		errs = append(errs, ErrNoTableSection)
	}
	return errors.Join(errs...)
}

// HasTableSection reports whether any section requires a table
func (b Blueprint) HasTableSection() bool {
	for _, s := range b.Sections {
		if s.RequiresTable {
			return true
		}
	}
	return false
}

// SectionDraft is one section's HTML plus whether the generator produced it
type SectionDraft struct {
	Spec      SectionSpec `json:"spec"`
	HTML      string      `json:"html"`
	Generated bool        `json:"generated"`
	Tier      string      `json:"tier"` // generated, synthesized, fallback
}
