package position

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/domain"
)

type countingMapper struct {
	calls int
	err   error
}

func (m *countingMapper) MeasurePositions(_ context.Context, sentences []domain.Sentence, _ Viewport) ([]SentencePosition, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]SentencePosition, len(sentences))
	for i, s := range sentences {
		out[i] = SentencePosition{SentenceID: s.ID, Y: float64(i * 20)}
	}
	return out, nil
}

func TestCachingMapper_ReusesMeasurementForSameIDSet(t *testing.T) {
	inner := &countingMapper{}
	m := NewCachingMapper(inner)
	vp := Viewport{Width: 800, Height: 600}
	sentences := []domain.Sentence{{ID: "a"}, {ID: "b"}}

	first, err := m.MeasurePositions(context.Background(), sentences, vp)
	require.NoError(t, err)
	second, err := m.MeasurePositions(context.Background(), sentences, vp)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingMapper_RemeasuresWhenIDSetChanges(t *testing.T) {
	inner := &countingMapper{}
	m := NewCachingMapper(inner)
	vp := Viewport{Width: 800, Height: 600}

	_, err := m.MeasurePositions(context.Background(), []domain.Sentence{{ID: "a"}}, vp)
	require.NoError(t, err)
	_, err = m.MeasurePositions(context.Background(), []domain.Sentence{{ID: "a"}, {ID: "b"}}, vp)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingMapper_RemeasuresOnViewportChange(t *testing.T) {
	inner := &countingMapper{}
	m := NewCachingMapper(inner)
	sentences := []domain.Sentence{{ID: "a"}}

	_, err := m.MeasurePositions(context.Background(), sentences, Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	_, err = m.MeasurePositions(context.Background(), sentences, Viewport{Width: 400, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingMapper_InvalidateForcesRemeasure(t *testing.T) {
	inner := &countingMapper{}
	m := NewCachingMapper(inner)
	vp := Viewport{Width: 800, Height: 600}
	sentences := []domain.Sentence{{ID: "a"}}

	_, err := m.MeasurePositions(context.Background(), sentences, vp)
	require.NoError(t, err)
	m.Invalidate()
	_, err = m.MeasurePositions(context.Background(), sentences, vp)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingMapper_ErrorNotCached(t *testing.T) {
	inner := &countingMapper{err: errors.New("measure failed")}
	m := NewCachingMapper(inner)
	vp := Viewport{}
	sentences := []domain.Sentence{{ID: "a"}}

	_, err := m.MeasurePositions(context.Background(), sentences, vp)
	require.Error(t, err)

	inner.err = nil
	got, err := m.MeasurePositions(context.Background(), sentences, vp)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, inner.calls)
}
