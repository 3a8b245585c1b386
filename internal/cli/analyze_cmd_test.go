package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/service"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, chunks []domain.TextChunk) (embedding.Result, error) {
	out := make([]domain.TextChunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		out[i].Embedding = []float64{1, 0}
	}
	return embedding.Result{Chunks: out, Usage: domain.EmbeddingUsage{Tokens: 7, Cost: 0.00014}}, nil
}

func testApp() *App {
	analysis := service.NewAnalysis(service.DefaultAnalysisConfig(),
		fixedEmbedder{}, intelligence.FallbackThemeService{}, nil)
	return &App{
		Prod:     intelligence.NoopProdService{},
		Analysis: analysis,
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCommand(t *testing.T, app *App, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestAnalyzeCmd_RendersThemes(t *testing.T) {
	path := writeTempFile(t, "Hello world. This is a test!")
	out := runCommand(t, testApp(), "analyze", path)

	assert.Contains(t, out, "THEMES")
	// Fallback labeling keeps the cluster's generic label.
	assert.Contains(t, out, "Main Theme")
	assert.Contains(t, out, "7 embedding tokens")
}

func TestAnalyzeCmd_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "   \n")
	out := runCommand(t, testApp(), "analyze", path)
	assert.Contains(t, out, "nothing to analyze")
}

func TestAnalyzeCmd_NoCredentialDegrades(t *testing.T) {
	analysis := service.NewAnalysis(service.DefaultAnalysisConfig(),
		embedding.Disabled{}, intelligence.FallbackThemeService{}, nil)
	app := &App{Prod: intelligence.NoopProdService{}, Analysis: analysis}

	path := writeTempFile(t, "Hello world. This is a test!")
	out := runCommand(t, app, "analyze", path)
	assert.Contains(t, out, "set OPENAI_API_KEY")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	root := NewRootCmd(testApp())
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"analyze", "/does/not/exist.txt"})
	assert.Error(t, root.Execute())
}
