// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the MCP server.
type Config struct {
	SpecSources []string // APIMATCH_SPEC_SOURCES, comma-separated file paths or URLs

	// Upstream API call settings
	APIBaseURL    string        // APIMATCH_API_BASE_URL, overrides the spec's base URL when set
	APIAuthHeader string        // APIMATCH_API_AUTH_HEADER, e.g. "Authorization"
	APIAuthValue  string        // APIMATCH_API_AUTH_VALUE, e.g. "Bearer ..."
	CallTimeout   time.Duration // CALL_TIMEOUT_MS, default 30000ms (30s)

	// Semantic matcher settings. Leaving the API key empty disables the
	// semantic tier; the engine runs on the fallback matcher alone.
	LLMBaseURL      string        // LLM_BASE_URL, default "https://api.openai.com/v1"
	LLMAPIKey       string        // LLM_API_KEY, default "" (semantic tier disabled)
	LLMModel        string        // LLM_MODEL, default "gpt-4o-mini"
	LLMTimeout      time.Duration // LLM_TIMEOUT_MS, default 20000ms (20s)
	SemanticTimeout time.Duration // SEMANTIC_TIMEOUT_MS, default 15000ms (15s)

	// Engine settings
	MatchCacheSize     int // MATCH_CACHE_SIZE, default 512
	DefaultSearchLimit int // DEFAULT_SEARCH_LIMIT, default 10

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		SpecSources: getEnvList("APIMATCH_SPEC_SOURCES"),

		APIBaseURL:    getEnvString("APIMATCH_API_BASE_URL", ""),
		APIAuthHeader: getEnvString("APIMATCH_API_AUTH_HEADER", ""),
		APIAuthValue:  getEnvString("APIMATCH_API_AUTH_VALUE", ""),
		CallTimeout:   getEnvDurationMs("CALL_TIMEOUT_MS", 30000),

		LLMBaseURL:      getEnvString("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:       getEnvString("LLM_API_KEY", ""),
		LLMModel:        getEnvString("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:      getEnvDurationMs("LLM_TIMEOUT_MS", 20000),
		SemanticTimeout: getEnvDurationMs("SEMANTIC_TIMEOUT_MS", 15000),

		MatchCacheSize:     getEnvInt("MATCH_CACHE_SIZE", 512),
		DefaultSearchLimit: getEnvInt("DEFAULT_SEARCH_LIMIT", 10),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// SemanticEnabled reports whether the semantic matcher tier is configured.
func (c *Config) SemanticEnabled() bool {
	return c.LLMAPIKey != ""
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
