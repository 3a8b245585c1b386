package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/queue"
	"github.com/andreicstoica/refract/internal/trigger"
)

type recordingProdClient struct {
	mu    sync.Mutex
	calls []string
}

func (c *recordingProdClient) GenerateProd(_ context.Context, lastParagraph, _ string) (domain.ProdResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, lastParagraph)
	c.mu.Unlock()
	return domain.ProdResult{SelectedProd: "What happens next?", Confidence: 0.9}, nil
}

func TestEditorSession_PunctuatedTextProducesProd(t *testing.T) {
	client := &recordingProdClient{}
	prods := make(chan domain.ProdResult, 1)

	session := NewEditorSession(trigger.DemoConfig(), queue.DemoConfig(), client,
		func(_ domain.QueueItem, res domain.ProdResult) {
			prods <- res
		})
	defer session.Close()

	session.OnTextChange("I have been writing for a while now and it keeps going.")

	select {
	case res := <-prods:
		assert.Equal(t, "What happens next?", res.SelectedProd)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a prod to be delivered")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.calls, 1)
	assert.Equal(t, "I have been writing for a while now and it keeps going.", client.calls[0])
}

func TestEditorSession_SparseInputDoesNotTrigger(t *testing.T) {
	client := &recordingProdClient{}
	session := NewEditorSession(trigger.DemoConfig(), queue.DemoConfig(), client, nil)
	defer session.Close()

	session.OnTextChange("Hi.")
	time.Sleep(300 * time.Millisecond)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Empty(t, client.calls)
}

func TestEditorSession_CloseIsIdempotentlySafe(t *testing.T) {
	client := &recordingProdClient{}
	session := NewEditorSession(trigger.DemoConfig(), queue.DemoConfig(), client, nil)

	session.OnTextChange("Some text that ends with punctuation and is long enough to pass.")
	session.Close()

	// After close the queue is drained and no goroutines linger; a final
	// snapshot read must not race.
	_ = session.Queue()
}
