// ABOUTME: Provider-neutral interfaces for the embedding and generation services
// ABOUTME: A factory resolves the configured provider once at startup
package llm

import (
	"context"
	"fmt"

	"github.com/yashraj10/retention-rag/internal/config"
)

// GenParams are the per-call generation parameters.
type GenParams struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Embedder converts texts into fixed-dimension vectors, one per input,
// order-preserving. The same transform serves both document chunks and
// queries so the embedding space stays symmetric.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenParams) (string, error)
}

// Client is a full embedding + generation backend.
type Client interface {
	Embedder
	Generator
}

// New resolves the configured provider into a Client.
func New(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case config.ProviderGemini:
		return NewGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
