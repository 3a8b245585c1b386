// Package queue serializes outbound prod requests. State transitions happen
// only through the pure reducer, so no two transitions can race on the same
// item; the Scheduler owns the state instance, the rate limiter and the dedup
// map so multiple editing sessions can run isolated.
package queue

import (
	"fmt"

	"github.com/andreicstoica/refract/internal/domain"
)

// State is the queue's full state: the outstanding items plus a processing
// flag that gates the single consumer.
type State struct {
	Items        []domain.QueueItem
	IsProcessing bool
}

// Action is the tagged union of queue state transitions.
type Action interface {
	isAction()
}

// Enqueue adds a new pending item. Older items still in pending are pruned
// (only the freshest pending request matters); items already in processing
// are never touched.
type Enqueue struct{ Item domain.QueueItem }

// StartProcessing marks the identified item as in flight.
type StartProcessing struct{ ID string }

// CompleteProcessing removes the identified item after a successful call.
type CompleteProcessing struct{ ID string }

// FailProcessing removes the identified item after a failed call. Failures
// are not retried; retries are the caller's responsibility.
type FailProcessing struct{ ID string }

// SetProcessing sets the consumer-busy flag directly.
type SetProcessing struct{ Processing bool }

// ClearQueue drops everything and resets the processing flag.
type ClearQueue struct{}

func (Enqueue) isAction()            {}
func (StartProcessing) isAction()    {}
func (CompleteProcessing) isAction() {}
func (FailProcessing) isAction()     {}
func (SetProcessing) isAction()      {}
func (ClearQueue) isAction()         {}

// Reduce applies an action to a state and returns the next state. It is pure:
// the input state is never mutated.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Enqueue:
		items := make([]domain.QueueItem, 0, len(s.Items)+1)
		for _, it := range s.Items {
			if it.Status == domain.QueuePending {
				continue
			}
			items = append(items, it)
		}
		item := a.Item
		item.Status = domain.QueuePending
		items = append(items, item)
		return State{Items: items, IsProcessing: s.IsProcessing}

	case StartProcessing:
		items := make([]domain.QueueItem, len(s.Items))
		for i, it := range s.Items {
			if it.ID == a.ID {
				it.Status = domain.QueueProcessing
			}
			items[i] = it
		}
		return State{Items: items, IsProcessing: true}

	case CompleteProcessing:
		return removeItem(s, a.ID)

	case FailProcessing:
		return removeItem(s, a.ID)

	case SetProcessing:
		return State{Items: s.Items, IsProcessing: a.Processing}

	case ClearQueue:
		return State{}

	default:
		panic(fmt.Sprintf("queue: unhandled action %T", a))
	}
}

func removeItem(s State, id string) State {
	items := make([]domain.QueueItem, 0, len(s.Items))
	processing := false
	for _, it := range s.Items {
		if it.ID == id {
			continue
		}
		if it.Status == domain.QueueProcessing {
			processing = true
		}
		items = append(items, it)
	}
	return State{Items: items, IsProcessing: processing}
}

// FirstPending returns the oldest pending item, FIFO within same-status items.
func FirstPending(s State) (domain.QueueItem, bool) {
	for _, it := range s.Items {
		if it.Status == domain.QueuePending {
			return it, true
		}
	}
	return domain.QueueItem{}, false
}
