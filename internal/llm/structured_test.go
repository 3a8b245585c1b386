package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type themeReply struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON[themeReply](`{"label":"Memory","confidence":0.9}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Memory", got.Label)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestExtractJSON_CodeFenceAndProse(t *testing.T) {
	raw := "Sure! Here is the result:\n```json\n{\"label\":\"Loss\",\"confidence\":0.7}\n```\nLet me know if you need anything else."
	got, err := ExtractJSON[themeReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Loss", got.Label)
}

func TestExtractJSON_LineComments(t *testing.T) {
	raw := "{\n\"label\": \"Change\", // the dominant theme\n\"confidence\": 0.6\n}"
	got, err := ExtractJSON[themeReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Change", got.Label)
}

func TestExtractJSON_SlashesInsideStringsSurvive(t *testing.T) {
	raw := `{"label":"a//b","confidence":0.5}`
	got, err := ExtractJSON[themeReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "a//b", got.Label)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type outer struct {
		Inner map[string]string `json:"inner"`
	}
	got, err := ExtractJSON[outer](`prefix {"inner":{"k":"v"}} suffix`, nil)
	require.NoError(t, err)
	assert.Equal(t, "v", got.Inner["k"])
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON[themeReply]("no json here", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	_, err := ExtractJSON[themeReply](`{"label":"","confidence":2}`, func(r themeReply) error {
		if r.Confidence < 0 || r.Confidence > 1 {
			return fmt.Errorf("confidence out of range")
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestConfig_TaskTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.Tasks[TaskProd].TimeoutMs, cfg.TaskTimeout(TaskProd))
	assert.Equal(t, cfg.TimeoutMs, cfg.TaskTimeout(TaskType("unknown")))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REFRACT_MODEL_ENABLED", "true")
	t.Setenv("REFRACT_MODEL", "mistral")
	t.Setenv("REFRACT_PROD_TIMEOUT_MS", "1234")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "mistral", cfg.Model)
	assert.Equal(t, 1234, cfg.TaskTimeout(TaskProd))
}
