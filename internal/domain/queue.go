package domain

import "time"

// QueueItemStatus is the lifecycle state of a queued prod request.
type QueueItemStatus string

const (
	QueuePending    QueueItemStatus = "pending"
	QueueProcessing QueueItemStatus = "processing"
	QueueCompleted  QueueItemStatus = "completed"
	QueueFailed     QueueItemStatus = "failed"
)

// QueueItem is one outstanding prod request. Status transitions are owned
// exclusively by the queue reducer; items are never mutated elsewhere.
type QueueItem struct {
	ID        string
	FullText  string
	Sentence  Sentence
	Timestamp time.Time
	Status    QueueItemStatus
	Force     bool
}
