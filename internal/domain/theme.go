package domain

// TextChunk is the unit of text submitted for embedding. Chunking is 1:1 with
// sentences today; the SentenceID link is what lets highlight ranges map back
// onto character offsets.
type TextChunk struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SentenceID string    `json:"sentenceId"`
	Embedding  []float64 `json:"embedding,omitempty"`
}

// ClusterResult is one k-means cluster over chunk embeddings. Confidence is
// the mean cosine similarity of member chunks to the centroid.
type ClusterResult struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Chunks      []TextChunk `json:"chunks"`
	Centroid    []float64   `json:"centroid"`
	Confidence  float64     `json:"confidence"`
	Color       string      `json:"color,omitempty"`
	Description string      `json:"description,omitempty"`
}

// ThemeChunk is a cluster member enriched with its correlation: the cosine
// similarity of this specific chunk to its cluster centroid. Correlation is
// preserved so highlight intensity can be derived later without re-embedding.
type ThemeChunk struct {
	TextChunk
	Correlation float64 `json:"correlation"`
}

// Theme is the externally visible form of a cluster: model-assigned label,
// description and color plus per-chunk correlations.
type Theme struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color"`
	Confidence  float64      `json:"confidence"`
	Chunks      []ThemeChunk `json:"chunks"`
}

// MinChunkCorrelation is the response-formatting cutoff: theme chunks below
// this correlation are dropped from the external view even though clustering
// itself used all chunks.
const MinChunkCorrelation = 0.55

// FilterChunks returns the theme's chunks at or above MinChunkCorrelation.
func (t Theme) FilterChunks() []ThemeChunk {
	out := make([]ThemeChunk, 0, len(t.Chunks))
	for _, c := range t.Chunks {
		if c.Correlation >= MinChunkCorrelation {
			out = append(out, c)
		}
	}
	return out
}

// EmbeddingUsage accumulates token and cost accounting for embedding calls.
type EmbeddingUsage struct {
	Tokens int     `json:"tokens"`
	Cost   float64 `json:"cost"`
}
