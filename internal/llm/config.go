package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of model task being performed.
type TaskType string

const (
	// TaskProd generates a short reflective question about recent writing.
	TaskProd TaskType = "prod"
	// TaskThemeLabel assigns labels, descriptions and colors to clusters.
	TaskThemeLabel TaskType = "theme_label"
)

// TaskConfig holds per-task model parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the text-model subsystem.
type Config struct {
	Enabled             bool
	LogCalls            bool
	Endpoint            string
	Model               string
	TimeoutMs           int
	MaxRetries          int
	ConfidenceThreshold float64
	Tasks               map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults. The model boundary
// is disabled by default; prods and theme labels then degrade to their
// deterministic fallbacks.
func DefaultConfig() Config {
	return Config{
		Enabled:             false,
		LogCalls:            false,
		Endpoint:            "http://localhost:11434",
		Model:               "llama3.2",
		TimeoutMs:           15000,
		MaxRetries:          1,
		ConfidenceThreshold: 0.3,
		Tasks: map[TaskType]TaskConfig{
			TaskProd:       {Temperature: 0.7, MaxTokens: 256, TimeoutMs: 15000},
			TaskThemeLabel: {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 20000},
		},
	}
}

// LoadConfig reads model configuration from environment variables, falling
// back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("REFRACT_MODEL_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REFRACT_MODEL_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REFRACT_MODEL_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("REFRACT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("REFRACT_MODEL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("REFRACT_MODEL_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("REFRACT_PROD_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskProd, "REFRACT_PROD_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskThemeLabel, "REFRACT_THEME_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
