package intelligence

import (
	"strings"

	"github.com/andreicstoica/refract/internal/domain"
)

const prodSystemPrompt = `You are a gentle writing companion. The user is free-writing;
you occasionally surface one short reflective question (a "prod") about what
they just wrote. Respond with JSON only:
{"selectedProd": "<one short open question>", "confidence": <0..1>, "shouldSkip": <bool>}
Set shouldSkip true (and confidence low) when the writing does not invite a
question yet. Never ask more than one question. Keep it under 15 words.`

func buildProdUserPrompt(lastParagraph, fullText string) string {
	var b strings.Builder
	if strings.TrimSpace(fullText) != "" && fullText != lastParagraph {
		b.WriteString("## Full text so far\n")
		b.WriteString(fullText)
		b.WriteString("\n\n")
	}
	b.WriteString("## Most recent sentence\n")
	b.WriteString(lastParagraph)
	return b.String()
}

const themeSystemPrompt = `You label clusters of semantically related sentences from a piece
of free writing. For each cluster, give a short evocative label (1-3 words), a
one-sentence description, a hex color, and your confidence. Respond with JSON only:
{"themes":[{"clusterId":"<id>","label":"...","description":"...","color":"#rrggbb","confidence":<0..1>}]}
Use the provided cluster IDs verbatim.`

func buildThemeUserPrompt(clusters []domain.ClusterResult, fullText string) string {
	var b strings.Builder
	if strings.TrimSpace(fullText) != "" {
		b.WriteString("## Full text\n")
		b.WriteString(fullText)
		b.WriteString("\n\n")
	}
	b.WriteString("## Clusters\n")
	for _, c := range clusters {
		b.WriteString(c.ID)
		b.WriteString(":\n")
		for _, ch := range c.Chunks {
			b.WriteString("  - ")
			b.WriteString(ch.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
