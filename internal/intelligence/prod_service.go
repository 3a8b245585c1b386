// Package intelligence wraps the text-model boundary with domain services.
// Every service resolves upstream failure into a deterministic fallback: a
// failed prod attempt is indistinguishable from "the model declined", and a
// failed theme labeling still yields colored, generically-labeled themes.
package intelligence

import (
	"context"
	"errors"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/llm"
)

// fallbackProd is shown when the model fails hard but the caller still wants
// something to surface.
const fallbackProd = "What feels most alive in what you just wrote?"

// ProdService generates reflective prompts for recent writing.
type ProdService interface {
	// Generate produces a prod for the given sentence. It never returns an
	// error for upstream failures; those resolve to skip or fallback results.
	Generate(ctx context.Context, lastParagraph, fullText string) (domain.ProdResult, error)
}

type prodService struct {
	client    llm.Client
	threshold float64
}

// NewProdService creates a ProdService backed by a model client. threshold is
// the minimum confidence below which a result becomes a skip.
func NewProdService(client llm.Client, threshold float64) ProdService {
	return &prodService{client: client, threshold: threshold}
}

type prodReply struct {
	SelectedProd string  `json:"selectedProd"`
	Confidence   float64 `json:"confidence"`
	ShouldSkip   bool    `json:"shouldSkip"`
}

func (s *prodService) Generate(ctx context.Context, lastParagraph, fullText string) (domain.ProdResult, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskProd,
		SystemPrompt: prodSystemPrompt,
		UserPrompt:   buildProdUserPrompt(lastParagraph, fullText),
	})
	if err != nil {
		if errors.Is(err, llm.ErrTimeout) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// Soft skip: the user sees nothing, not an error.
			return domain.ProdResult{Confidence: 0, ShouldSkip: true}, nil
		}
		if errors.Is(err, context.Canceled) {
			return domain.ProdResult{}, err
		}
		return domain.ProdResult{SelectedProd: fallbackProd, Confidence: 0.5}, nil
	}

	parsed, err := llm.ExtractJSON[prodReply](resp.Text, validateProdReply)
	if err != nil {
		return domain.ProdResult{SelectedProd: fallbackProd, Confidence: 0.5}, nil
	}

	if parsed.ShouldSkip || parsed.Confidence < s.threshold {
		return domain.ProdResult{Confidence: parsed.Confidence, ShouldSkip: true}, nil
	}

	return domain.ProdResult{
		SelectedProd: parsed.SelectedProd,
		Confidence:   parsed.Confidence,
	}, nil
}

func validateProdReply(r prodReply) error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return errors.New("confidence out of range")
	}
	return nil
}
