package domain

import "time"

// TriggerReason says why the trigger engine decided to request a prod.
type TriggerReason string

const (
	ReasonPunctuation   TriggerReason = "punctuation"
	ReasonSoftComma     TriggerReason = "soft_comma"
	ReasonCharThreshold TriggerReason = "char_threshold"
	ReasonSettling      TriggerReason = "settling"
	ReasonWatchdog      TriggerReason = "watchdog"
)

// Trigger is a fired trigger decision handed from the engine to the queue.
type Trigger struct {
	Reason   TriggerReason
	Sentence Sentence
	FullText string
	Force    bool
	At       time.Time
}

// ProdResult is the outcome of a prod generation call. A zero-confidence or
// ShouldSkip result means no prompt is shown.
type ProdResult struct {
	SelectedProd string  `json:"selectedProd,omitempty"`
	Confidence   float64 `json:"confidence"`
	ShouldSkip   bool    `json:"shouldSkip,omitempty"`
}
