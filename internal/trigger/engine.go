// Package trigger decides when to request a new prod while the user types.
// The Engine is the single timer-owning component: settling debounce and idle
// watchdog both live here, with one cancellation discipline, instead of ad hoc
// timer handles threaded through UI state.
package trigger

import (
	"strings"
	"sync"
	"time"

	"github.com/andreicstoica/refract/internal/domain"
)

// Engine decides, on every text change and on a periodic idle check, whether
// to request a prod for the current last sentence. State is guarded by a
// mutex; the fire callback is invoked outside the lock.
type Engine struct {
	cfg  Config
	fire func(domain.Trigger)

	mu                 sync.Mutex
	lastTriggerAt      time.Time
	lastTriggerCharPos int
	lastInputAt        time.Time
	watchdogArmed      bool
	settling           *time.Timer
	latestText         string
	latestSentence     domain.Sentence
	hasInput           bool

	now  func() time.Time
	done chan struct{}
	wg   sync.WaitGroup
}

// NewEngine creates an Engine that calls fire for every trigger decision.
// Call Start to run the idle watchdog and Close to release all timers.
func NewEngine(cfg Config, fire func(domain.Trigger)) *Engine {
	return &Engine{
		cfg:  cfg,
		fire: fire,
		now:  time.Now,
		done: make(chan struct{}),
	}
}

// Start launches the idle watchdog.
func (e *Engine) Start() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.cfg.WatchdogTick)
		defer ticker.Stop()
		for {
			select {
			case <-e.done:
				return
			case <-ticker.C:
				e.checkIdle(e.now())
			}
		}
	}()
}

// Close stops the watchdog and cancels any pending settling timer. Stale
// timers firing on destroyed state is exactly the bug this prevents.
func (e *Engine) Close() {
	close(e.done)
	e.mu.Lock()
	e.cancelSettlingLocked()
	e.mu.Unlock()
	e.wg.Wait()
}

// OnTextChange is called for every text-change event with the full text and
// its current last sentence. It resets the idle clock, re-arms the watchdog,
// cancels any stale settling timer, and re-evaluates the trigger decision.
func (e *Engine) OnTextChange(text string, lastSentence domain.Sentence) {
	e.mu.Lock()
	now := e.now()
	e.lastInputAt = now
	e.watchdogArmed = true
	e.hasInput = true
	e.latestText = text
	e.latestSentence = lastSentence
	e.cancelSettlingLocked()

	if !e.shouldTriggerLocked(text, lastSentence, now) {
		e.mu.Unlock()
		return
	}

	reason, ok := e.triggerReasonLocked(text, lastSentence)
	if !ok {
		// Nothing conclusive yet: debounce, then re-check against whatever
		// the text looks like once typing has settled.
		e.settling = time.AfterFunc(e.cfg.Settling, e.settlingFire)
		e.mu.Unlock()
		return
	}

	trig := e.fireLocked(reason, false, now)
	e.mu.Unlock()
	e.fire(trig)
}

// ShouldTrigger reports whether the gating predicate passes for the given
// text at the given time. Exposed for introspection; OnTextChange applies it
// internally.
func (e *Engine) ShouldTrigger(text string, lastSentence domain.Sentence, now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shouldTriggerLocked(text, lastSentence, now)
}

func (e *Engine) shouldTriggerLocked(text string, lastSentence domain.Sentence, now time.Time) bool {
	if now.Sub(e.lastTriggerAt) < e.cfg.Cooldown {
		return false
	}
	if len(text) < e.cfg.MinTextLen && len(lastSentence.Text) < e.cfg.MinSentenceLen {
		return false
	}
	return true
}

// triggerReasonLocked picks a reason in priority order: punctuation, soft
// comma, char threshold. A false second return means "schedule a settling
// trigger instead".
func (e *Engine) triggerReasonLocked(text string, lastSentence domain.Sentence) (domain.TriggerReason, bool) {
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" {
		return "", false
	}

	last := trimmed[len(trimmed)-1]
	switch last {
	case '\n', '.', '!', '?', ';', ':':
		return domain.ReasonPunctuation, true
	case ',':
		if len(lastSentence.Text) >= e.cfg.SoftCommaMinSentence &&
			len(text)-e.lastTriggerCharPos >= e.cfg.SoftCommaMinDelta {
			return domain.ReasonSoftComma, true
		}
	}

	if len(text)-e.lastTriggerCharPos >= e.cfg.CharTrigger {
		return domain.ReasonCharThreshold, true
	}
	return "", false
}

// settlingFire runs when the settling debounce elapses. It re-validates the
// gate against the latest text and sentence, not the snapshot taken when the
// timer was scheduled.
func (e *Engine) settlingFire() {
	e.mu.Lock()
	select {
	case <-e.done:
		e.mu.Unlock()
		return
	default:
	}

	now := e.now()
	if !e.hasInput || !e.shouldTriggerLocked(e.latestText, e.latestSentence, now) {
		e.mu.Unlock()
		return
	}
	trig := e.fireLocked(domain.ReasonSettling, false, now)
	e.mu.Unlock()
	e.fire(trig)
}

// checkIdle force-triggers once after prolonged inactivity, then disarms the
// watchdog until the next keystroke re-arms it. The force path bypasses the
// gating predicate entirely.
func (e *Engine) checkIdle(now time.Time) {
	e.mu.Lock()
	if !e.watchdogArmed || !e.hasInput || now.Sub(e.lastInputAt) < e.cfg.IdleAfter {
		e.mu.Unlock()
		return
	}
	e.watchdogArmed = false
	trig := e.fireLocked(domain.ReasonWatchdog, true, now)
	e.mu.Unlock()
	e.fire(trig)
}

// fireLocked records the trigger synchronously (cooldown timestamp and char
// position) before the caller dispatches the async request, so a fast
// double-fire cannot occur even when the downstream call is slow.
func (e *Engine) fireLocked(reason domain.TriggerReason, force bool, now time.Time) domain.Trigger {
	e.lastTriggerAt = now
	e.lastTriggerCharPos = len(e.latestText)
	return domain.Trigger{
		Reason:   reason,
		Sentence: e.latestSentence,
		FullText: e.latestText,
		Force:    force,
		At:       now,
	}
}

func (e *Engine) cancelSettlingLocked() {
	if e.settling != nil {
		e.settling.Stop()
		e.settling = nil
	}
}
