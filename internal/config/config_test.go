package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Empty(t, cfg.SpecSources)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLMBaseURL)
	assert.Equal(t, 15*time.Second, cfg.SemanticTimeout)
	assert.Equal(t, 512, cfg.MatchCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.SemanticEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APIMATCH_SPEC_SOURCES", "specs/a.json, https://example.com/b.yaml ,")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("SEMANTIC_TIMEOUT_MS", "5000")
	t.Setenv("MATCH_CACHE_SIZE", "64")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()

	assert.Equal(t, []string{"specs/a.json", "https://example.com/b.yaml"}, cfg.SpecSources)
	assert.True(t, cfg.SemanticEnabled())
	assert.Equal(t, 5*time.Second, cfg.SemanticTimeout)
	assert.Equal(t, 64, cfg.MatchCacheSize)
	assert.False(t, cfg.LogCompress)
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("MATCH_CACHE_SIZE", "not-a-number")
	assert.Equal(t, 512, Load().MatchCacheSize)
}
