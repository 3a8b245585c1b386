package queue

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andreicstoica/refract/internal/domain"
)

// ProdClient generates a prod for a queue item. Implementations must convert
// every upstream failure into a usable fallback result; an error return is
// reserved for cancellation and programmer errors.
type ProdClient interface {
	GenerateProd(ctx context.Context, lastParagraph, fullText string) (domain.ProdResult, error)
}

// Config holds scheduler pacing parameters.
type Config struct {
	// MinSpacing is the minimum gap between consecutive outbound calls,
	// regardless of queue depth.
	MinSpacing time.Duration
	// ThrottleWindow is the minimum gap between processing-pass starts; if it
	// has not elapsed, processing reschedules itself via a timer rather than
	// busy-waiting.
	ThrottleWindow time.Duration
	// RequestTimeout bounds a single outbound call. An expired call resolves
	// to a soft skip downstream, not a user-visible error.
	RequestTimeout time.Duration
}

// DefaultConfig returns the production pacing preset.
func DefaultConfig() Config {
	return Config{
		MinSpacing:     500 * time.Millisecond,
		ThrottleWindow: 7 * time.Second,
		RequestTimeout: 15 * time.Second,
	}
}

// DemoConfig returns a faster preset for demos.
func DemoConfig() Config {
	return Config{
		MinSpacing:     200 * time.Millisecond,
		ThrottleWindow: 1 * time.Second,
		RequestTimeout: 15 * time.Second,
	}
}

// Scheduler is the single consumer of the queue: it serializes outbound prod
// requests, rate-limits them, deduplicates by content fingerprint and
// tolerates out-of-order completions (each item is independent and identified
// by its own ID).
type Scheduler struct {
	cfg     Config
	client  ProdClient
	dedup   *Deduper
	limiter *rate.Limiter
	onProd  func(domain.QueueItem, domain.ProdResult)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	lastStart time.Time
	retry     *time.Timer
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewScheduler creates a Scheduler. onProd is invoked for every completed item
// whose result should be shown; it is called outside the scheduler lock.
func NewScheduler(cfg Config, client ProdClient, dedup *Deduper, onProd func(domain.QueueItem, domain.ProdResult)) *Scheduler {
	if dedup == nil {
		dedup = NewDeduper(0, 0)
	}
	if onProd == nil {
		onProd = func(domain.QueueItem, domain.ProdResult) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:     cfg,
		client:  client,
		dedup:   dedup,
		limiter: rate.NewLimiter(rate.Every(cfg.MinSpacing), 1),
		onProd:  onProd,
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}
}

// Submit enqueues a prod request for a fired trigger. Duplicate text within
// the dedup TTL is dropped unless the trigger was forced.
func (s *Scheduler) Submit(trig domain.Trigger) bool {
	if !trig.Force && s.dedup.Seen(trig.Sentence.Text) {
		return false
	}

	item := domain.QueueItem{
		ID:        uuid.NewString(),
		FullText:  trig.FullText,
		Sentence:  trig.Sentence,
		Timestamp: trig.At,
		Status:    domain.QueuePending,
		Force:     trig.Force,
	}

	s.mu.Lock()
	s.state = Reduce(s.state, Enqueue{Item: item})
	s.mu.Unlock()

	s.kick()
	return true
}

// Snapshot returns a copy of the current queue state.
func (s *Scheduler) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.QueueItem, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, IsProcessing: s.state.IsProcessing}
}

// Clear drops all queued items.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	s.state = Reduce(s.state, ClearQueue{})
	s.mu.Unlock()
}

// Close cancels in-flight work and waits for it to settle.
func (s *Scheduler) Close() {
	s.cancel()
	s.mu.Lock()
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// kick starts a processing pass if one is not running. If the whole-queue
// throttle window has not elapsed since the last pass started, it reschedules
// itself instead of busy-waiting.
func (s *Scheduler) kick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil || s.state.IsProcessing {
		return
	}
	item, ok := FirstPending(s.state)
	if !ok {
		return
	}

	now := s.now()
	if wait := s.cfg.ThrottleWindow - now.Sub(s.lastStart); wait > 0 {
		if s.retry == nil {
			s.retry = time.AfterFunc(wait, func() {
				s.mu.Lock()
				s.retry = nil
				s.mu.Unlock()
				s.kick()
			})
		}
		return
	}

	s.lastStart = now
	s.state = Reduce(s.state, StartProcessing{ID: item.ID})
	s.wg.Add(1)
	go s.process(item)
}

func (s *Scheduler) process(item domain.QueueItem) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		s.finish(item, domain.ProdResult{}, err)
		return
	}

	res, err := s.client.GenerateProd(ctx, item.Sentence.Text, item.FullText)
	s.finish(item, res, err)
}

func (s *Scheduler) finish(item domain.QueueItem, res domain.ProdResult, err error) {
	s.mu.Lock()
	if err != nil {
		s.state = Reduce(s.state, FailProcessing{ID: item.ID})
	} else {
		s.state = Reduce(s.state, CompleteProcessing{ID: item.ID})
	}
	s.mu.Unlock()

	if err == nil && prodVisible(res) {
		s.onProd(item, res)
	}

	s.kick()
}

// prodVisible reports whether a completed result should surface a prompt. An
// empty/whitespace prod or an explicit skip produces nothing visible.
func prodVisible(res domain.ProdResult) bool {
	return !res.ShouldSkip && strings.TrimSpace(res.SelectedProd) != ""
}
