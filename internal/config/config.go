// ABOUTME: Centralized configuration for the retention decision twin
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names for the generation/embedding backend.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all process-wide read-only settings. It is constructed once
// at startup and passed into every component.
type Config struct {
	// LLM provider settings
	Provider   string
	GeminiKey  string
	OpenAIKey  string
	GenModel   string
	EvalModel  string
	EmbedModel string

	// Generation parameters
	Temperature float32
	MaxTokens   int

	// Service call behavior
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK      int
	VectorDim int

	// Paths
	DBPath           string
	ManifestPath     string
	DecisionSpecPath string

	// Ingestion batching
	EmbedBatchSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:   getEnv("TWIN_PROVIDER", ProviderGemini),
		GeminiKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		GenModel:   getEnv("TWIN_GEN_MODEL", ""),
		EvalModel:  getEnv("TWIN_EVAL_MODEL", ""),
		EmbedModel: getEnv("TWIN_EMBED_MODEL", ""),

		Temperature: float32(getEnvFloat("TWIN_TEMPERATURE", 0.2)),
		MaxTokens:   getEnvInt("TWIN_MAX_TOKENS", 1024),

		Timeout:    getEnvDuration("TWIN_TIMEOUT", 60*time.Second),
		MaxRetries: getEnvInt("TWIN_MAX_RETRIES", 3),
		RetryDelay: getEnvDuration("TWIN_RETRY_DELAY", 2*time.Second),

		ChunkSize:    getEnvInt("TWIN_CHUNK_SIZE", 1500),
		ChunkOverlap: getEnvInt("TWIN_CHUNK_OVERLAP", 200),

		TopK:      getEnvInt("TWIN_TOP_K", 5),
		VectorDim: getEnvInt("TWIN_VECTOR_DIM", 768),

		DBPath:           getEnv("TWIN_DB_PATH", "retention_kb.db"),
		ManifestPath:     getEnv("TWIN_MANIFEST", "sources.json"),
		DecisionSpecPath: os.Getenv("TWIN_DECISION_SPEC"),

		EmbedBatchSize: getEnvInt("TWIN_EMBED_BATCH", 10),
	}

	if cfg.GenModel == "" {
		cfg.GenModel = defaultGenModel(cfg.Provider)
	}
	if cfg.EvalModel == "" {
		cfg.EvalModel = cfg.GenModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = defaultEmbedModel(cfg.Provider)
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Provider != ProviderGemini && c.Provider != ProviderOpenAI {
		return fmt.Errorf("TWIN_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.Provider)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("TWIN_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("TWIN_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TWIN_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("TWIN_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("TWIN_EMBED_BATCH must be positive, got %d", c.EmbedBatchSize)
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.GeminiKey
}

func defaultGenModel(provider string) string {
	if provider == ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return "gemini-2.0-flash"
}

func defaultEmbedModel(provider string) string {
	if provider == ProviderOpenAI {
		return "text-embedding-3-small"
	}
	return "gemini-embedding-001"
}

// Helper functions

func getEnv(key, defaultVal string) string {
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
