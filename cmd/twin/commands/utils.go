// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Config loading, client construction, and small formatting utilities
package commands

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"

	"github.com/yashraj10/retention-rag/internal/config"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

// loadConfig loads .env then the environment configuration.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("no API key set for provider %s (set GEMINI_API_KEY or OPENAI_API_KEY)", cfg.Provider)
	}
	return cfg, nil
}

// loadPathConfig loads configuration without requiring an API key, for
// commands that only touch local state.
func loadPathConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// loadDecisionSpec loads the configured decision spec, falling back to the
// built-in retention spec.
func loadDecisionSpec(cfg *config.Config) (models.DecisionSpec, error) {
	if cfg.DecisionSpecPath == "" {
		return models.DefaultDecisionSpec(), nil
	}
	return models.LoadDecisionSpec(cfg.DecisionSpecPath)
}

// genParams builds generation parameters for the given model.
func genParams(cfg *config.Config, model string) llm.GenParams {
	return llm.GenParams{
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// closeClient closes the LLM client if the provider holds a connection.
func closeClient(client llm.Client) {
	if c, ok := client.(io.Closer); ok {
		_ = c.Close()
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
