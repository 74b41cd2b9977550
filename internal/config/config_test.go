package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("MEMORY_BACKEND", "")
	t.Setenv("MEMORY_TOP_K", "")

	cfg := FromEnv()

	assert.Equal(t, "xiaomi/mimo-v2-flash:free", cfg.Ai.OrchestratorModel)
	assert.Equal(t, "google/gemini-2.0-flash-exp:free", cfg.Ai.IngestionModel)
	assert.Equal(t, "deepseek/deepseek-v3.2", cfg.Ai.CoderModel)
	assert.Equal(t, "mistralai/devstral-2512:free", cfg.Ai.AuditorModel)
	assert.Equal(t, 2, cfg.Memory.TopK)
	assert.True(t, cfg.Ai.AutoAudit)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("CODER_MODEL", "qwen/qwen3-coder")
	t.Setenv("MEMORY_BACKEND", "PGVECTOR")
	t.Setenv("MEMORY_TOP_K", "5")
	t.Setenv("AUTO_AUDIT", "false")
	t.Setenv("GO_ENV", "production")

	cfg := FromEnv()

	assert.Equal(t, "openai", cfg.Ai.LLMProvider)
	assert.Equal(t, "qwen/qwen3-coder", cfg.Ai.CoderModel)
	assert.Equal(t, MemoryBackendPgVector, cfg.Memory.Backend)
	assert.Equal(t, 5, cfg.Memory.TopK)
	assert.False(t, cfg.Ai.AutoAudit)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
