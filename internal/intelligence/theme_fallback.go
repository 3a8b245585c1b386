package intelligence

import (
	"strconv"

	"github.com/andreicstoica/refract/internal/domain"
)

// themePalette is the fixed fallback palette, cycled by cluster index so even
// unlabeled themes stay visually distinct.
var themePalette = []string{
	"#8ec07c",
	"#fabd2f",
	"#83a598",
	"#d3869b",
	"#fe8019",
	"#fb4934",
}

// PaletteColor returns the fallback color for a cluster index.
func PaletteColor(i int) string {
	return themePalette[i%len(themePalette)]
}

// FallbackThemes synthesizes a theme per cluster without any model input.
func FallbackThemes(clusters []domain.ClusterResult) []domain.Theme {
	themes := make([]domain.Theme, len(clusters))
	for i, c := range clusters {
		themes[i] = fallbackTheme(c, i)
	}
	return themes
}

func fallbackTheme(c domain.ClusterResult, i int) domain.Theme {
	label := c.Label
	if label == "" {
		label = "Theme " + strconv.Itoa(i+1)
	}
	return domain.Theme{
		ID:         c.ID,
		Label:      label,
		Color:      PaletteColor(i),
		Confidence: 0.5,
		Chunks:     correlatedChunks(c),
	}
}
