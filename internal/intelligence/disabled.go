package intelligence

import (
	"context"

	"github.com/andreicstoica/refract/internal/domain"
)

// NoopProdService skips every request. Used when model generation is disabled
// (no credential, or REFRACT_MODEL_ENABLED unset); the writer simply sees no
// prods.
type NoopProdService struct{}

func (NoopProdService) Generate(context.Context, string, string) (domain.ProdResult, error) {
	return domain.ProdResult{ShouldSkip: true}, nil
}

// FallbackThemeService labels clusters without a model, using the fixed
// palette and generic labels.
type FallbackThemeService struct{}

func (FallbackThemeService) LabelClusters(_ context.Context, clusters []domain.ClusterResult, _ string) []domain.Theme {
	return FallbackThemes(clusters)
}
