package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/highlight"
)

// FormatAnalysis renders the theme list and the text with highlight spans.
// With useColor false (non-TTY output) everything is plain text with textual
// markers instead of color.
func FormatAnalysis(text string, themes []domain.Theme, ranges []domain.HighlightRange, useColor bool) string {
	var b strings.Builder

	if useColor {
		b.WriteString(Header("Themes"))
	} else {
		b.WriteString("THEMES")
	}
	b.WriteString("\n")

	if len(themes) == 0 {
		b.WriteString(renderDim("no themes detected", useColor))
		b.WriteString("\n")
	}
	for _, theme := range themes {
		b.WriteString(formatThemeLine(theme, useColor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if useColor {
		b.WriteString(Header("Text"))
	} else {
		b.WriteString("TEXT")
	}
	b.WriteString("\n")
	b.WriteString(formatHighlightedText(text, ranges, useColor))
	b.WriteString("\n")

	return b.String()
}

func formatThemeLine(theme domain.Theme, useColor bool) string {
	confidence := fmt.Sprintf("(%.0f%%)", theme.Confidence*100)
	line := fmt.Sprintf("%s %s · %d passages", theme.Label, confidence, len(theme.FilterChunks()))

	if !useColor {
		if theme.Description != "" {
			line += " - " + theme.Description
		}
		return "  " + line
	}

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Color)).Render("●")
	out := "  " + swatch + " " + StyleFg.Render(line)
	if theme.Description != "" {
		out += "\n    " + Dim(theme.Description)
	}
	return out
}

// formatHighlightedText paints each highlighted segment in its theme color,
// with low-intensity spans rendered faint.
func formatHighlightedText(text string, ranges []domain.HighlightRange, useColor bool) string {
	segments := highlight.SegmentText(text, ranges)

	var b strings.Builder
	for _, seg := range segments {
		span := text[seg.Start:seg.End]
		if seg.Range == nil {
			b.WriteString(span)
			continue
		}
		if !useColor {
			b.WriteString("[" + span + "]")
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Range.Color))
		if seg.Range.Intensity < 0.5 {
			style = style.Faint(true)
		}
		b.WriteString(style.Render(span))
	}
	return b.String()
}

func renderDim(text string, useColor bool) string {
	if !useColor {
		return "  " + text
	}
	return "  " + Dim(text)
}
