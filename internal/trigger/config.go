package trigger

import (
	"os"
	"time"
)

// Config holds the trigger engine's timing and threshold knobs.
type Config struct {
	// Cooldown is the minimum gap between two fired triggers.
	Cooldown time.Duration
	// CharTrigger fires once this many characters were typed since the last
	// trigger.
	CharTrigger int
	// Settling is the debounce delay before a settling trigger re-checks the
	// latest text.
	Settling time.Duration

	// IdleAfter is how long without a keystroke before the watchdog
	// force-triggers.
	IdleAfter time.Duration
	// WatchdogTick is the idle check interval.
	WatchdogTick time.Duration

	// MinTextLen and MinSentenceLen suppress prods on very early, sparse
	// input: both must be undershot for the gate to reject.
	MinTextLen     int
	MinSentenceLen int

	// SoftCommaMinSentence and SoftCommaMinDelta gate the trailing-comma
	// trigger so short clauses don't fire it.
	SoftCommaMinSentence int
	SoftCommaMinDelta    int
}

// ProductionConfig returns the reference timing preset.
func ProductionConfig() Config {
	return Config{
		Cooldown:             500 * time.Millisecond,
		CharTrigger:          30,
		Settling:             700 * time.Millisecond,
		IdleAfter:            6 * time.Second,
		WatchdogTick:         time.Second,
		MinTextLen:           50,
		MinSentenceLen:       20,
		SoftCommaMinSentence: 25,
		SoftCommaMinDelta:    8,
	}
}

// DemoConfig returns a faster preset for live demos.
func DemoConfig() Config {
	cfg := ProductionConfig()
	cfg.Cooldown = 100 * time.Millisecond
	cfg.CharTrigger = 15
	cfg.Settling = 200 * time.Millisecond
	return cfg
}

// LoadConfig selects a preset from the environment: REFRACT_MODE=demo picks
// the demo preset, anything else the production one.
func LoadConfig() Config {
	if os.Getenv("REFRACT_MODE") == "demo" {
		return DemoConfig()
	}
	return ProductionConfig()
}
