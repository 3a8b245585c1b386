package embedding

import (
	"context"
	"errors"

	"github.com/andreicstoica/refract/internal/domain"
)

// ErrNoCredential is returned when embedding is requested but no API key was
// configured.
var ErrNoCredential = errors.New("no embedding API key configured")

// Disabled is the Embedder used when no API credential is present. It fails
// fast with ErrNoCredential instead of issuing a doomed network call.
type Disabled struct{}

func (Disabled) Embed(_ context.Context, chunks []domain.TextChunk) (Result, error) {
	if len(chunks) == 0 {
		return Result{Chunks: []domain.TextChunk{}}, nil
	}
	return Result{}, ErrNoCredential
}
