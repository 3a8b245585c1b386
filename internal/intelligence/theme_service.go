package intelligence

import (
	"context"

	"github.com/andreicstoica/refract/internal/cluster"
	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/llm"
)

// ThemeService enriches raw clusters with model-assigned labels, descriptions
// and colors.
type ThemeService interface {
	// LabelClusters returns one theme per cluster. On total upstream failure
	// every cluster still gets a fallback theme; the system never surfaces
	// zero themes when clusters exist.
	LabelClusters(ctx context.Context, clusters []domain.ClusterResult, fullText string) []domain.Theme
}

type themeService struct {
	client llm.Client
}

// NewThemeService creates a ThemeService backed by a model client.
func NewThemeService(client llm.Client) ThemeService {
	return &themeService{client: client}
}

type themeLabelReply struct {
	Themes []struct {
		ClusterID   string  `json:"clusterId"`
		Label       string  `json:"label"`
		Description string  `json:"description"`
		Color       string  `json:"color"`
		Confidence  float64 `json:"confidence"`
	} `json:"themes"`
}

func (s *themeService) LabelClusters(ctx context.Context, clusters []domain.ClusterResult, fullText string) []domain.Theme {
	if len(clusters) == 0 {
		return nil
	}

	parsed, err := s.generate(ctx, clusters, fullText)
	if err != nil {
		return FallbackThemes(clusters)
	}

	return reconcile(clusters, parsed)
}

func (s *themeService) generate(ctx context.Context, clusters []domain.ClusterResult, fullText string) (*themeLabelReply, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskThemeLabel,
		SystemPrompt: themeSystemPrompt,
		UserPrompt:   buildThemeUserPrompt(clusters, fullText),
	})
	if err != nil {
		return nil, err
	}
	parsed, err := llm.ExtractJSON[themeLabelReply](resp.Text, nil)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// reconcile maps the model's suggested cluster IDs back onto the real cluster
// set. Unknown IDs fall back to positional mapping, IDs already claimed are
// skipped, and any cluster left unresolved gets a synthesized fallback theme.
func reconcile(clusters []domain.ClusterResult, reply *themeLabelReply) []domain.Theme {
	byID := make(map[string]int, len(clusters))
	for i, c := range clusters {
		byID[c.ID] = i
	}

	claimed := make(map[string]bool, len(clusters))
	themed := make(map[string]domain.Theme, len(clusters))

	for i, suggestion := range reply.Themes {
		idx, known := byID[suggestion.ClusterID]
		if !known {
			// Positional fallback for a hallucinated ID.
			if i >= len(clusters) {
				continue
			}
			idx = i
		}
		id := clusters[idx].ID
		if claimed[id] {
			continue
		}
		claimed[id] = true

		color := suggestion.Color
		if color == "" {
			color = PaletteColor(idx)
		}
		themed[id] = domain.Theme{
			ID:          id,
			Label:       suggestion.Label,
			Description: suggestion.Description,
			Color:       color,
			Confidence:  suggestion.Confidence,
			Chunks:      correlatedChunks(clusters[idx]),
		}
	}

	out := make([]domain.Theme, 0, len(clusters))
	for i, c := range clusters {
		if theme, ok := themed[c.ID]; ok {
			out = append(out, theme)
			continue
		}
		out = append(out, fallbackTheme(c, i))
	}
	return out
}

// correlatedChunks attaches each member's correlation: the cosine similarity
// of that chunk's embedding to the cluster centroid.
func correlatedChunks(c domain.ClusterResult) []domain.ThemeChunk {
	chunks := make([]domain.ThemeChunk, len(c.Chunks))
	for i, ch := range c.Chunks {
		chunks[i] = domain.ThemeChunk{
			TextChunk:   ch,
			Correlation: cluster.CosineSimilarity(ch.Embedding, c.Centroid),
		}
	}
	return chunks
}
