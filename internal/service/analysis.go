// Package service orchestrates the core packages: the analysis pipeline
// (segment → embed → cluster → label → ranges → persist) and the editor
// session (segment → trigger engine → queue → prod client).
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/andreicstoica/refract/internal/cluster"
	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/highlight"
	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/segment"
	"github.com/andreicstoica/refract/internal/store"
)

// ErrNoSentences is returned when the input text segments to nothing.
var ErrNoSentences = errors.New("no sentences to analyze")

// AnalysisConfig tunes the pipeline.
type AnalysisConfig struct {
	// ClusterCount is the k passed to clustering; fewer chunks than k
	// short-circuit to a single cluster.
	ClusterCount int
	// ReuseOverlap is the minimum Jaccard overlap between the current sentence
	// ID set and the persisted snapshot's below which themes are regenerated.
	ReuseOverlap float64
	// SnapshotKey selects the persisted snapshot.
	SnapshotKey string
	// Seed fixes the clustering RNG; zero seeds from the clock.
	Seed int64
}

// DefaultAnalysisConfig returns the production pipeline settings.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		ClusterCount: 3,
		ReuseOverlap: 0.8,
		SnapshotKey:  store.DefaultKey,
	}
}

// AnalysisResult is one full pipeline run.
type AnalysisResult struct {
	Sentences []domain.Sentence
	Clusters  []domain.ClusterResult
	Themes    []domain.Theme
	Ranges    []domain.HighlightRange
	Usage     domain.EmbeddingUsage
	// Reused reports that themes came from the persisted snapshot rather than
	// a fresh embed+cluster+label pass.
	Reused bool
}

// Analysis runs the full theme pipeline over a piece of text.
type Analysis struct {
	cfg      AnalysisConfig
	embedder embedding.Embedder
	themes   intelligence.ThemeService
	store    *store.Store // nil disables persistence and reuse
}

// NewAnalysis creates the pipeline. st may be nil to disable persistence.
func NewAnalysis(cfg AnalysisConfig, embedder embedding.Embedder, themes intelligence.ThemeService, st *store.Store) *Analysis {
	if cfg.ClusterCount <= 0 {
		cfg.ClusterCount = 3
	}
	if cfg.ReuseOverlap <= 0 {
		cfg.ReuseOverlap = 0.8
	}
	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = store.DefaultKey
	}
	return &Analysis{cfg: cfg, embedder: embedder, themes: themes, store: st}
}

// Run segments text and produces themes with highlight ranges. When the
// sentence ID set overlaps the persisted snapshot enough, the snapshot's
// themes are reused instead of re-embedding.
func (a *Analysis) Run(ctx context.Context, text string) (*AnalysisResult, error) {
	sentences := segment.Split(text)
	if len(sentences) == 0 {
		return nil, ErrNoSentences
	}

	sentenceMap := make(map[string]domain.Sentence, len(sentences))
	ids := make([]string, len(sentences))
	for i, s := range sentences {
		sentenceMap[s.ID] = s
		ids[i] = s.ID
	}

	if themes, ok := a.reusableThemes(ctx, ids); ok {
		return &AnalysisResult{
			Sentences: sentences,
			Themes:    themes,
			Ranges:    highlight.RangesFromThemes(themes, sentenceMap, nil),
			Reused:    true,
		}, nil
	}

	result, err := a.ThemesForSentences(ctx, sentences, text)
	if err != nil {
		return nil, err
	}

	if a.store != nil {
		snap := store.Snapshot{FullText: text, Sentences: sentences, Themes: result.Themes}
		if err := a.store.Save(ctx, a.cfg.SnapshotKey, snap); err != nil {
			return nil, fmt.Errorf("persisting analysis snapshot: %w", err)
		}
	}
	return result, nil
}

// ThemesForSentences runs embed → cluster → label over an existing sentence
// list, skipping snapshot reuse and persistence. Callers that only have text
// should use Run.
func (a *Analysis) ThemesForSentences(ctx context.Context, sentences []domain.Sentence, fullText string) (*AnalysisResult, error) {
	if len(sentences) == 0 {
		return nil, ErrNoSentences
	}

	sentenceMap := make(map[string]domain.Sentence, len(sentences))
	for _, s := range sentences {
		sentenceMap[s.ID] = s
	}

	embedded, err := a.embedder.Embed(ctx, embedding.ToChunks(sentences))
	if err != nil {
		return nil, fmt.Errorf("embedding sentences: %w", err)
	}

	seed := a.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clusters := cluster.Run(embedded.Chunks, a.cfg.ClusterCount, rand.New(rand.NewSource(seed)))
	themes := a.themes.LabelClusters(ctx, clusters, fullText)

	return &AnalysisResult{
		Sentences: sentences,
		Clusters:  clusters,
		Themes:    themes,
		Ranges:    highlight.RangesFromThemes(themes, sentenceMap, nil),
		Usage:     embedded.Usage,
	}, nil
}

// reusableThemes loads the persisted snapshot and reports whether its themes
// still apply to the current sentence ID set.
func (a *Analysis) reusableThemes(ctx context.Context, ids []string) ([]domain.Theme, bool) {
	if a.store == nil {
		return nil, false
	}
	snap, err := a.store.Load(ctx, a.cfg.SnapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		// A broken snapshot must not block analysis, but it is not the
		// ordinary no-snapshot case either.
		log.Printf("analysis: loading snapshot %q: %v", a.cfg.SnapshotKey, err)
		return nil, false
	}
	if len(snap.Themes) == 0 {
		return nil, false
	}

	snapIDs := make([]string, len(snap.Sentences))
	for i, s := range snap.Sentences {
		snapIDs[i] = s.ID
	}
	if segment.JaccardOverlap(ids, snapIDs) < a.cfg.ReuseOverlap {
		return nil, false
	}
	return snap.Themes, true
}
