package outline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

var (
	ErrMissingTitle   = errors.New("missing TITLE line")
	ErrMissingMeta    = errors.New("missing META line")
	ErrMissingClosing = errors.New("missing CLOSING line")
	ErrMalformedLine  = errors.New("malformed outline line")
)

// ParseBlueprint reads the line contract
//
//	TITLE: ...
//	META: ...
//	SECTION: heading | paragraphs | format | instruction   (5-7 times)
//	CLOSING: ...
//
// Lines without a known label are ignored. A labeled line that does not
// follow the contract, a missing label, or fewer than five sections is an
// error. Sections beyond the seventh are dropped.
func ParseBlueprint(raw string) (model.Blueprint, error) {
	var bp model.Blueprint
	var closingSeen bool

	for n, line := range strings.Split(raw, "\n") {
		label, value, ok := splitLabel(line)
		if !ok {
			continue
		}

		switch label {
		case "TITLE":
			if value == "" {
				return model.Blueprint{}, fmt.Errorf("line %d: %w: empty title", n+1, ErrMalformedLine)
			}
			bp.Title = value
		case "META":
			if value == "" {
				return model.Blueprint{}, fmt.Errorf("line %d: %w: empty meta", n+1, ErrMalformedLine)
			}
			bp.MetaDescription = value
		case "SECTION":
			spec, err := parseSection(value)
			if err != nil {
				return model.Blueprint{}, fmt.Errorf("line %d: %w", n+1, err)
			}
			if len(bp.Sections) < model.MaxSections {
				bp.Sections = append(bp.Sections, spec)
			}
		case "CLOSING":
			bp.ClosingInstruction = value
			closingSeen = true
		}
	}

	switch {
	case bp.Title == "":
		return model.Blueprint{}, ErrMissingTitle
	case bp.MetaDescription == "":
		return model.Blueprint{}, ErrMissingMeta
	case !closingSeen:
		return model.Blueprint{}, ErrMissingClosing
	case len(bp.Sections) < model.MinSections:
		return model.Blueprint{}, fmt.Errorf("%w: %d", model.ErrTooFewSections, len(bp.Sections))
	}

	bp.Source = model.BlueprintGenerated
	return bp, nil
}

// splitLabel recognizes "LABEL: value", tolerating markdown decoration
// such as "**TITLE:**" or "- SECTION:"
func splitLabel(line string) (label, value string, ok bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*#> ")
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}

	label = strings.ToUpper(strings.Trim(line[:idx], "* "))
	switch label {
	case "TITLE", "META", "SECTION", "CLOSING":
	default:
		return "", "", false
	}

	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(line[idx+1:]), "*"))
	return label, value, true
}

func parseSection(value string) (model.SectionSpec, error) {
	parts := strings.Split(value, "|")
	if len(parts) != 4 {
		return model.SectionSpec{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedLine, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	heading := parts[0]
	if heading == "" {
		return model.SectionSpec{}, fmt.Errorf("%w: empty heading", ErrMalformedLine)
	}

	paragraphs, err := strconv.Atoi(parts[1])
	if err != nil || paragraphs < 1 || paragraphs > 6 {
		return model.SectionSpec{}, fmt.Errorf("%w: paragraph count %q", ErrMalformedLine, parts[1])
	}

	format, ok := model.ParseSectionFormat(strings.ToLower(parts[2]))
	if !ok {
		return model.SectionSpec{}, fmt.Errorf("%w: format %q", ErrMalformedLine, parts[2])
	}

	return model.NewSectionSpec(heading, paragraphs, format, parts[3]), nil
}
