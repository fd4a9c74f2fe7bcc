package outline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
)

const validOutline = `Berikut outline-nya:
**TITLE:** Pantai Kuta Bali: Surga Ombak & Senja!
META: Panduan Pantai Kuta Bali lengkap.
SECTION: Sejarah Pantai Kuta | 2 | paragraph | Ceritakan sejarahnya
SECTION: Harga Tiket | 1 | table | Tabel harga
SECTION: Aktivitas | 3 | list | Daftar aktivitas
SECTION: Kuliner Sekitar | 2 | mixed | Kuliner
SECTION: Tips | 2 | list | Tips praktis
CLOSING: Ajak pembaca berkunjung`

func TestParseBlueprint_Valid(t *testing.T) {
	bp, err := ParseBlueprint(validOutline)
	require.NoError(t, err)

	assert.Equal(t, "Pantai Kuta Bali: Surga Ombak & Senja!", bp.Title)
	assert.Equal(t, model.BlueprintGenerated, bp.Source)
	require.Len(t, bp.Sections, 5)
	assert.True(t, bp.Sections[1].RequiresTable)
	assert.Equal(t, 3, bp.Sections[2].ParagraphCount)
	assert.True(t, bp.Sections[3].RequiresList)
	assert.Equal(t, "Ajak pembaca berkunjung", bp.ClosingInstruction)
}

func TestParseBlueprint_TruncatesExtraSections(t *testing.T) {
	extra := strings.Replace(validOutline, "CLOSING:",
		"SECTION: A | 1 | list | a\nSECTION: B | 1 | list | b\nSECTION: C | 1 | list | c\nCLOSING:", 1)
	bp, err := ParseBlueprint(extra)
	require.NoError(t, err)
	assert.Len(t, bp.Sections, model.MaxSections)
}

func TestParseBlueprint_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"no title", strings.Replace(validOutline, "**TITLE:** Pantai Kuta Bali: Surga Ombak & Senja!", "", 1), ErrMissingTitle},
		{"no meta", strings.Replace(validOutline, "META: Panduan Pantai Kuta Bali lengkap.", "", 1), ErrMissingMeta},
		{"no closing", strings.Replace(validOutline, "CLOSING: Ajak pembaca berkunjung", "", 1), ErrMissingClosing},
		{"bad format", strings.Replace(validOutline, "| mixed |", "| gallery |", 1), ErrMalformedLine},
		{"bad count", strings.Replace(validOutline, "| 3 |", "| tiga |", 1), ErrMalformedLine},
		{"missing field", strings.Replace(validOutline, "| Tips praktis", "", 1), ErrMalformedLine},
		{"too few", strings.Replace(validOutline, "SECTION: Tips | 2 | list | Tips praktis", "", 1), model.ErrTooFewSections},
		{"empty", "", ErrMissingTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlueprint(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTemplates_AreValid(t *testing.T) {
	kinds := []model.ContentType{model.ContentDestination, model.ContentFood, model.ContentLodging, model.ContentActivity}
	for _, kind := range kinds {
		bp := Template(kind, "Pantai Kuta")
		assert.NoError(t, bp.Validate(), kind)
		assert.Equal(t, model.BlueprintTemplate, bp.Source)
		assert.Contains(t, bp.Title, "Pantai Kuta")
	}
}

func TestRepair(t *testing.T) {
	bp := model.Blueprint{
		Title: "Pantai Kuta!!! Panduan: Harga, Jam Buka, Lokasi & Tips Lengkap Terbaru 2025",
		Sections: []model.SectionSpec{
			model.NewSectionSpec("Sejarah", 2, model.FormatParagraph, ""),
			model.NewSectionSpec("Aktivitas", 2, model.FormatList, ""),
		},
		MetaDescription: strings.Repeat("kata ", 50),
	}

	out, notes := Repair(bp, "Pantai Kuta", 1200)

	assert.Equal(t, "Pantai Kuta Panduan Harga Jam Buka Lokasi Tips", out.Title)
	assert.NoError(t, out.Validate())
	require.Len(t, out.Sections, 6)
	assert.True(t, out.Sections[2].RequiresTable)
	assert.Equal(t, "Tips Berkunjung ke Pantai Kuta", out.Sections[3].Heading)
	assert.LessOrEqual(t, len([]rune(out.MetaDescription)), 160)
	assert.Equal(t, model.WordRange{Min: 1200, Max: 2000}, out.TargetWordRange)
	assert.NotEmpty(t, out.ClosingInstruction)
	assert.NotEmpty(t, notes)

	// Input untouched
	assert.Len(t, bp.Sections, 2)
}

func TestRepair_EmptyBlueprint(t *testing.T) {
	out, _ := Repair(model.Blueprint{}, "Kuta Beach Bali", 0)

	assert.NoError(t, out.Validate())
	assert.Equal(t, "Panduan Lengkap Kuta Beach Bali", out.Title)
	assert.NotEmpty(t, out.MetaDescription)
	assert.Equal(t, 1000, out.TargetWordRange.Min)
}

func TestPlanner_Generated(t *testing.T) {
	backend := llm.NewChain(nil, llm.NewStaticProvider(llm.Rule{Contains: "TITLE:", Text: validOutline}))
	p := NewPlanner(model.DefaultConfig(), backend, nil)

	res := p.Plan(context.Background(), "Pantai Kuta Bali", model.KnowledgeGraph{Topic: "Pantai Kuta Bali"})

	assert.Equal(t, model.BlueprintGenerated, res.Blueprint.Source)
	assert.Equal(t, "Pantai Kuta Bali Surga Ombak Senja", res.Blueprint.Title)
	assert.NoError(t, res.Blueprint.Validate())
}

func TestPlanner_FallsBackToTemplate(t *testing.T) {
	backend := llm.NewChain(nil, llm.NewStaticProvider(llm.Rule{Contains: "TITLE:", Text: "maaf, saya tidak bisa"}))
	p := NewPlanner(model.DefaultConfig(), backend, nil)

	kg := model.KnowledgeGraph{Topic: "Warung Bu Rus", ContentType: model.ContentFood}
	res := p.Plan(context.Background(), "Warung Bu Rus", kg)

	assert.Equal(t, model.BlueprintTemplate, res.Blueprint.Source)
	assert.NoError(t, res.Blueprint.Validate())
	assert.Contains(t, strings.Join(res.Log, "\n"), "food template")
}

func TestPrompt(t *testing.T) {
	kg := model.KnowledgeGraph{
		ContentType:  model.ContentDestination,
		Entities:     model.Entities{Prices: []string{"Rp 10.000"}},
		HeadingsSeen: []string{"Harga Tiket"},
	}
	p := Prompt("Pantai Kuta", kg)
	assert.Contains(t, p, "Data available: prices")
	assert.Contains(t, p, "Harga Tiket")
	assert.Contains(t, p, "SECTION:")
}
