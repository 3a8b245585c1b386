// Package embedding converts sentences into embed-ready chunks and fetches
// their vectors from the embeddings API. Chunking is 1:1 with sentences for
// now; the chunk layer exists so sub-sentence chunking can slot in later
// without touching clustering.
package embedding

import (
	"strings"

	"github.com/andreicstoica/refract/internal/domain"
)

// ToChunks maps sentences to text chunks, one per sentence. Whitespace-only
// sentences are filtered out; they embed to noise.
func ToChunks(sentences []domain.Sentence) []domain.TextChunk {
	chunks := make([]domain.TextChunk, 0, len(sentences))
	for _, s := range sentences {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		chunks = append(chunks, domain.TextChunk{
			ID:         "chunk-" + s.ID,
			Text:       s.Text,
			SentenceID: s.ID,
		})
	}
	return chunks
}
