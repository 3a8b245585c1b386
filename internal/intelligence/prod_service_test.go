package intelligence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/llm"
)

// fakeClient returns a canned response or error for every Generate call.
type fakeClient struct {
	text string
	err  error

	lastReq llm.GenerateRequest
	calls   int
}

func (f *fakeClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.lastReq = req
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "fake"}, nil
}

func (f *fakeClient) Available(context.Context) bool { return f.err == nil }

func TestProdService_Generate(t *testing.T) {
	client := &fakeClient{text: `{"selectedProd": "What surprised you here?", "confidence": 0.8, "shouldSkip": false}`}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "I kept writing anyway.", "full text")
	require.NoError(t, err)
	assert.Equal(t, "What surprised you here?", res.SelectedProd)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	assert.False(t, res.ShouldSkip)
	assert.Equal(t, llm.TaskProd, client.lastReq.Task)
}

func TestProdService_LowConfidenceBecomesSkip(t *testing.T) {
	client := &fakeClient{text: `{"selectedProd": "Hmm?", "confidence": 0.1, "shouldSkip": false}`}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.True(t, res.ShouldSkip)
	assert.Empty(t, res.SelectedProd)
}

func TestProdService_ModelSkipRespected(t *testing.T) {
	client := &fakeClient{text: `{"selectedProd": "", "confidence": 0.9, "shouldSkip": true}`}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.True(t, res.ShouldSkip)
}

func TestProdService_TimeoutIsSoftSkip(t *testing.T) {
	client := &fakeClient{err: llm.ErrTimeout}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.True(t, res.ShouldSkip)
	assert.Zero(t, res.Confidence)
}

func TestProdService_CancellationPropagates(t *testing.T) {
	client := &fakeClient{err: context.Canceled}
	svc := NewProdService(client, 0.3)

	_, err := svc.Generate(context.Background(), "text", "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProdService_HardFailureFallsBack(t *testing.T) {
	client := &fakeClient{err: llm.ErrModelUnavailable}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.Equal(t, fallbackProd, res.SelectedProd)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.False(t, res.ShouldSkip)
}

func TestProdService_GarbageOutputFallsBack(t *testing.T) {
	client := &fakeClient{text: "I cannot answer that as JSON, sorry."}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.Equal(t, fallbackProd, res.SelectedProd)
}

func TestProdService_OutOfRangeConfidenceFallsBack(t *testing.T) {
	client := &fakeClient{text: `{"selectedProd": "q", "confidence": 1.7, "shouldSkip": false}`}
	svc := NewProdService(client, 0.3)

	res, err := svc.Generate(context.Background(), "text", "text")
	require.NoError(t, err)
	assert.Equal(t, fallbackProd, res.SelectedProd)
}
