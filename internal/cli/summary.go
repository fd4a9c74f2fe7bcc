package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/hyperion/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const rule = "═══════════════════════════════════════════════════════════"

// banner is the framed heading the CLI prints before each report
func banner(title string) string {
	return rule + "\n  " + titleStyle.Render(title) + "\n" + rule
}

// scoreText colors a 0-100 score
func scoreText(score int) string {
	s := fmt.Sprintf("%d/100", score)
	if score >= 70 {
		return goodStyle.Render(s)
	}
	return warnStyle.Render(s)
}

// renderSummary describes one finished run
func renderSummary(res model.PipelineResult) string {
	stages := fmt.Sprintf("%d/%d", res.StagesCompleted, len(res.Stages))
	if res.StagesCompleted == len(res.Stages) {
		stages = goodStyle.Render(stages)
	} else {
		stages = warnStyle.Render(stages)
	}

	rows := [][2]string{
		{"Title", res.Title},
		{"Words", fmt.Sprintf("%d", res.WordCount)},
		{"Stages", stages},
		{"SEO", scoreText(res.SEOScore)},
		{"Readability", scoreText(res.ReadabilityScore)},
		{"Category", res.Taxonomy.Category},
		{"Tags", strings.Join(res.Taxonomy.Tags, ", ")},
		{"Images", fmt.Sprintf("%d suggested", len(res.ImageSuggestions))},
		{"Duration", res.Duration.Round(time.Millisecond).String()},
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+r[1])
	}
	for _, s := range res.Stages {
		if !s.Completed {
			lines = append(lines, warnStyle.Render(fmt.Sprintf("✗ %s: %s", s.Name, s.Error)))
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a topic into a safe file name
func slugify(topic string) string {
	s := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(topic), "-"), "-")
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	if s == "" {
		s = "article"
	}
	return filepath.Base(s)
}
