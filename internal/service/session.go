package service

import (
	"context"

	"github.com/andreicstoica/refract/internal/domain"
	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/queue"
	"github.com/andreicstoica/refract/internal/segment"
	"github.com/andreicstoica/refract/internal/trigger"
)

// prodAdapter lets the scheduler call an intelligence.ProdService.
type prodAdapter struct {
	svc intelligence.ProdService
}

func (a prodAdapter) GenerateProd(ctx context.Context, lastParagraph, fullText string) (domain.ProdResult, error) {
	return a.svc.Generate(ctx, lastParagraph, fullText)
}

// ProdClientFromService adapts a ProdService to the scheduler's client
// interface.
func ProdClientFromService(svc intelligence.ProdService) queue.ProdClient {
	return prodAdapter{svc: svc}
}

// EditorSession wires one editing session end to end: text changes flow
// through the segmenter into the trigger engine; fired triggers flow through
// dedup and the queue to the prod client.
type EditorSession struct {
	engine    *trigger.Engine
	scheduler *queue.Scheduler
}

// NewEditorSession builds and starts a session. onProd receives every visible
// prod result.
func NewEditorSession(tcfg trigger.Config, qcfg queue.Config, client queue.ProdClient, onProd func(domain.QueueItem, domain.ProdResult)) *EditorSession {
	scheduler := queue.NewScheduler(qcfg, client, queue.NewDeduper(0, 0), onProd)
	engine := trigger.NewEngine(tcfg, func(trig domain.Trigger) {
		scheduler.Submit(trig)
	})
	engine.Start()
	return &EditorSession{engine: engine, scheduler: scheduler}
}

// OnTextChange feeds one text-change event through the session.
func (s *EditorSession) OnTextChange(text string) {
	sentences := segment.Split(text)
	var last domain.Sentence
	if len(sentences) > 0 {
		last = sentences[len(sentences)-1]
	}
	s.engine.OnTextChange(text, last)
}

// Queue returns a copy of the current queue state.
func (s *EditorSession) Queue() queue.State {
	return s.scheduler.Snapshot()
}

// Close stops the engine's timers first so nothing new reaches the scheduler,
// then drains the scheduler.
func (s *EditorSession) Close() {
	s.engine.Close()
	s.scheduler.Close()
}
