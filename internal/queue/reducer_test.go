package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/domain"
)

func pendingItem(id string) domain.QueueItem {
	return domain.QueueItem{
		ID:        id,
		FullText:  "full text for " + id,
		Timestamp: time.Now(),
		Status:    domain.QueuePending,
	}
}

func TestReduce_EnqueuePrunesOlderPendings(t *testing.T) {
	s := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	s = Reduce(s, Enqueue{Item: pendingItem("b")})

	require.Len(t, s.Items, 1)
	assert.Equal(t, "b", s.Items[0].ID)
	assert.Equal(t, domain.QueuePending, s.Items[0].Status)
}

func TestReduce_EnqueueNeverClobbersProcessing(t *testing.T) {
	s := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	s = Reduce(s, StartProcessing{ID: "a"})
	s = Reduce(s, Enqueue{Item: pendingItem("b")})

	require.Len(t, s.Items, 2)
	assert.Equal(t, "a", s.Items[0].ID)
	assert.Equal(t, domain.QueueProcessing, s.Items[0].Status)
	assert.Equal(t, "b", s.Items[1].ID)
	assert.Equal(t, domain.QueuePending, s.Items[1].Status)
}

func TestReduce_StartProcessingSetsFlag(t *testing.T) {
	s := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	s = Reduce(s, StartProcessing{ID: "a"})

	assert.True(t, s.IsProcessing)
	assert.Equal(t, domain.QueueProcessing, s.Items[0].Status)
}

func TestReduce_EnqueueThenFailRemovesItem(t *testing.T) {
	s := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	s = Reduce(s, FailProcessing{ID: "a"})

	assert.Empty(t, s.Items)
	assert.False(t, s.IsProcessing)
}

func TestReduce_CompleteRemovesOnlyThatItem(t *testing.T) {
	s := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	s = Reduce(s, StartProcessing{ID: "a"})
	s = Reduce(s, Enqueue{Item: pendingItem("b")})
	s = Reduce(s, CompleteProcessing{ID: "a"})

	require.Len(t, s.Items, 1)
	assert.Equal(t, "b", s.Items[0].ID)
	assert.False(t, s.IsProcessing, "no processing item remains")
}

func TestReduce_ClearAlwaysYieldsEmptyState(t *testing.T) {
	states := []State{
		{},
		Reduce(State{}, Enqueue{Item: pendingItem("a")}),
		{Items: []domain.QueueItem{pendingItem("x")}, IsProcessing: true},
	}
	for _, s := range states {
		got := Reduce(s, ClearQueue{})
		assert.Empty(t, got.Items)
		assert.False(t, got.IsProcessing)
	}
}

func TestReduce_SetProcessing(t *testing.T) {
	s := Reduce(State{}, SetProcessing{Processing: true})
	assert.True(t, s.IsProcessing)
	s = Reduce(s, SetProcessing{Processing: false})
	assert.False(t, s.IsProcessing)
}

func TestReduce_IsPure(t *testing.T) {
	orig := Reduce(State{}, Enqueue{Item: pendingItem("a")})
	before := orig.Items[0].Status

	_ = Reduce(orig, StartProcessing{ID: "a"})
	assert.Equal(t, before, orig.Items[0].Status, "input state must not be mutated")
}

func TestFirstPending_FIFOWithinStatus(t *testing.T) {
	s := State{Items: []domain.QueueItem{
		{ID: "p1", Status: domain.QueueProcessing},
		{ID: "a", Status: domain.QueuePending},
		{ID: "b", Status: domain.QueuePending},
	}}
	item, ok := FirstPending(s)
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)

	_, ok = FirstPending(State{})
	assert.False(t, ok)
}
