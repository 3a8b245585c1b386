// Package highlight maps themes back onto character ranges and partitions text
// into paintable segments for rendering.
package highlight

import (
	"math"
	"sort"

	"github.com/andreicstoica/refract/internal/domain"
)

// lowSpread is the per-theme spread of normalized correlations below which all
// chunks would render visually flat, triggering contrast stretching.
const lowSpread = 0.15

// RangesFromThemes emits one highlight range per visible theme chunk, looked
// up against the sentence map for character offsets. filterIDs restricts the
// output to the named themes; nil means all themes. Ranges are sorted by start.
func RangesFromThemes(themes []domain.Theme, sentences map[string]domain.Sentence, filterIDs []string) []domain.HighlightRange {
	var filter map[string]bool
	if filterIDs != nil {
		filter = make(map[string]bool, len(filterIDs))
		for _, id := range filterIDs {
			filter[id] = true
		}
	}

	var out []domain.HighlightRange
	for _, theme := range themes {
		if filter != nil && !filter[theme.ID] {
			continue
		}
		chunks := theme.FilterChunks()
		intensities := intensitiesFor(chunks)
		for i, ch := range chunks {
			s, ok := sentences[ch.SentenceID]
			if !ok {
				continue
			}
			out = append(out, domain.HighlightRange{
				Start:     s.StartIndex,
				End:       s.EndIndex,
				Color:     theme.Color,
				ThemeID:   theme.ID,
				Intensity: intensities[i],
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// intensitiesFor normalizes each chunk's correlation from [-1,1] to [0,1]. If
// the spread within the theme is small the values are contrast-stretched onto
// [0.3,0.9] so stronger passages still read stronger.
func intensitiesFor(chunks []domain.ThemeChunk) []float64 {
	vals := make([]float64, len(chunks))
	if len(chunks) == 0 {
		return vals
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, ch := range chunks {
		v := (ch.Correlation + 1) / 2
		vals[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	span := hi - lo
	if span >= lowSpread {
		return vals
	}
	for i, v := range vals {
		if span == 0 {
			vals[i] = 0.6
			continue
		}
		vals[i] = 0.3 + (v-lo)/span*0.6
	}
	return vals
}
