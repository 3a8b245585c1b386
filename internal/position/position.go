// Package position abstracts sentence layout measurement. Measurement itself
// belongs to whatever renders the text; this package owns only the contract
// and a cache keyed on the sentence ID set.
package position

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/andreicstoica/refract/internal/domain"
)

// Viewport describes the measurable area sentences are laid out in.
type Viewport struct {
	Width  int
	Height int
}

// SentencePosition is the measured on-screen location of one sentence.
type SentencePosition struct {
	SentenceID string
	X          float64
	Y          float64
	Width      float64
	Height     float64
}

// Mapper measures where sentences land in a viewport.
type Mapper interface {
	MeasurePositions(ctx context.Context, sentences []domain.Sentence, viewport Viewport) ([]SentencePosition, error)
}

// CachingMapper wraps a Mapper with an instance-owned cache. Measurements are
// reused until the sentence ID set or the viewport changes; sentence IDs are
// content-addressed, so an unchanged ID set means unchanged text spans.
type CachingMapper struct {
	inner Mapper

	mu       sync.Mutex
	key      string
	viewport Viewport
	cached   []SentencePosition
}

// NewCachingMapper wraps inner with measurement caching.
func NewCachingMapper(inner Mapper) *CachingMapper {
	return &CachingMapper{inner: inner}
}

func (m *CachingMapper) MeasurePositions(ctx context.Context, sentences []domain.Sentence, viewport Viewport) ([]SentencePosition, error) {
	key := idSetKey(sentences)

	m.mu.Lock()
	if m.cached != nil && key == m.key && viewport == m.viewport {
		out := make([]SentencePosition, len(m.cached))
		copy(out, m.cached)
		m.mu.Unlock()
		return out, nil
	}
	m.mu.Unlock()

	measured, err := m.inner.MeasurePositions(ctx, sentences, viewport)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.key = key
	m.viewport = viewport
	m.cached = make([]SentencePosition, len(measured))
	copy(m.cached, measured)
	m.mu.Unlock()

	return measured, nil
}

// Invalidate drops any cached measurement.
func (m *CachingMapper) Invalidate() {
	m.mu.Lock()
	m.cached = nil
	m.key = ""
	m.mu.Unlock()
}

// idSetKey builds an order-insensitive key over the sentence IDs.
func idSetKey(sentences []domain.Sentence) string {
	ids := make([]string, len(sentences))
	for i, s := range sentences {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}
