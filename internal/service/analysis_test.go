package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/store"
)

// fakeEmbedder attaches a fixed vector to every chunk.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, chunks []domain.TextChunk) (embedding.Result, error) {
	f.calls++
	out := make([]domain.TextChunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		out[i].Embedding = []float64{1, 0}
	}
	return embedding.Result{
		Chunks: out,
		Usage:  domain.EmbeddingUsage{Tokens: len(chunks) * 4, Cost: 0.0001},
	}, nil
}

// fakeLabeler assigns a deterministic label per cluster.
type fakeLabeler struct {
	calls int
}

func (f *fakeLabeler) LabelClusters(_ context.Context, clusters []domain.ClusterResult, _ string) []domain.Theme {
	f.calls++
	themes := make([]domain.Theme, len(clusters))
	for i, c := range clusters {
		chunks := make([]domain.ThemeChunk, len(c.Chunks))
		for j, ch := range c.Chunks {
			chunks[j] = domain.ThemeChunk{TextChunk: ch, Correlation: 0.9}
		}
		themes[i] = domain.Theme{
			ID: c.ID, Label: "Labeled", Color: "#8ec07c",
			Confidence: c.Confidence, Chunks: chunks,
		}
	}
	return themes
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewStore(db)
}

func TestAnalysis_EmptyTextIsAnError(t *testing.T) {
	a := NewAnalysis(DefaultAnalysisConfig(), &fakeEmbedder{}, &fakeLabeler{}, nil)

	_, err := a.Run(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoSentences)
}

func TestAnalysis_FullPipeline(t *testing.T) {
	emb := &fakeEmbedder{}
	a := NewAnalysis(DefaultAnalysisConfig(), emb, &fakeLabeler{}, nil)

	res, err := a.Run(context.Background(), "Hello world. This is a test!")
	require.NoError(t, err)

	require.Len(t, res.Sentences, 2)
	// Two chunks with k=3 short-circuit to one cluster.
	require.Len(t, res.Clusters, 1)
	require.Len(t, res.Themes, 1)
	assert.Equal(t, "Labeled", res.Themes[0].Label)
	require.Len(t, res.Ranges, 2)
	assert.Equal(t, 0, res.Ranges[0].Start)
	assert.Equal(t, 8, res.Usage.Tokens)
	assert.False(t, res.Reused)
}

func TestAnalysis_ReusesSnapshotThemes(t *testing.T) {
	emb := &fakeEmbedder{}
	labeler := &fakeLabeler{}
	a := NewAnalysis(DefaultAnalysisConfig(), emb, labeler, newTestStore(t))
	ctx := context.Background()
	text := "Hello world. This is a test!"

	first, err := a.Run(ctx, text)
	require.NoError(t, err)
	require.False(t, first.Reused)

	second, err := a.Run(ctx, text)
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Themes[0].Label, second.Themes[0].Label)
	assert.Len(t, second.Ranges, 2)
	assert.Equal(t, 1, emb.calls, "reuse must not re-embed")
	assert.Equal(t, 1, labeler.calls)
}

func TestAnalysis_RegeneratesWhenTextDiverges(t *testing.T) {
	emb := &fakeEmbedder{}
	a := NewAnalysis(DefaultAnalysisConfig(), emb, &fakeLabeler{}, newTestStore(t))
	ctx := context.Background()

	_, err := a.Run(ctx, "Hello world. This is a test!")
	require.NoError(t, err)

	res, err := a.Run(ctx, "Something else entirely. With different sentences! And more of them.")
	require.NoError(t, err)
	assert.False(t, res.Reused)
	assert.Equal(t, 2, emb.calls)
}

func TestAnalysis_SnapshotLoadFailureFallsBackToRegeneration(t *testing.T) {
	db, err := store.OpenDB(":memory:")
	require.NoError(t, err)
	st := store.NewStore(db)
	a := NewAnalysis(DefaultAnalysisConfig(), &fakeEmbedder{}, &fakeLabeler{}, st)
	ctx := context.Background()

	// Missing snapshot: the ordinary first-run case.
	themes, ok := a.reusableThemes(ctx, []string{"s0-hello"})
	assert.False(t, ok)
	assert.Nil(t, themes)

	// Broken store: reuse is skipped, analysis proceeds.
	require.NoError(t, db.Close())
	themes, ok = a.reusableThemes(ctx, []string{"s0-hello"})
	assert.False(t, ok)
	assert.Nil(t, themes)
}

func TestAnalysis_NoStoreNeverReuses(t *testing.T) {
	emb := &fakeEmbedder{}
	a := NewAnalysis(DefaultAnalysisConfig(), emb, &fakeLabeler{}, nil)
	ctx := context.Background()
	text := "Hello world. This is a test!"

	_, err := a.Run(ctx, text)
	require.NoError(t, err)
	res, err := a.Run(ctx, text)
	require.NoError(t, err)

	assert.False(t, res.Reused)
	assert.Equal(t, 2, emb.calls)
}
