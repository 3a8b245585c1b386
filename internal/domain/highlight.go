package domain

// HighlightRange is a renderable character span derived from a theme chunk.
// Intensity is a normalized (and possibly contrast-stretched) transform of the
// chunk's correlation, in [0,1].
type HighlightRange struct {
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Color     string  `json:"color"`
	ThemeID   string  `json:"themeId"`
	Intensity float64 `json:"intensity"`
}
