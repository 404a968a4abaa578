// ABOUTME: Gemini client for embeddings and generation via generative-ai-go
// ABOUTME: Batch-embeds with the shared bounded-retry and timeout policy
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yashraj10/retention-rag/internal/config"
	"github.com/yashraj10/retention-rag/internal/models"
	"github.com/yashraj10/retention-rag/internal/util"
)

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	embedModel string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewGeminiClient creates a Gemini-backed client from configuration.
func NewGeminiClient(cfg *config.Config) (*GeminiClient, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		embedModel: cfg.EmbedModel,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// EmbedBatch embeds texts in a single batch request, preserving input order.
func (c *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := c.client.EmbeddingModel(c.embedModel)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		batch := em.NewBatch()
		for _, text := range texts {
			batch = batch.AddContent(genai.Text(text))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := em.BatchEmbedContents(callCtx, batch)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Embeddings) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Embeddings), len(texts))
			continue
		}

		vectors := make([][]float64, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			vec := make([]float64, len(emb.Values))
			for j, v := range emb.Values {
				vec[j] = float64(v)
			}
			vectors[i] = vec
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %v", models.ErrEmbeddingService, c.maxRetries+1, lastErr)
}

// Generate runs one content generation and returns the concatenated text parts.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params GenParams) (string, error) {
	gm := c.client.GenerativeModel(params.Model)
	gm.SetTemperature(params.Temperature)
	if params.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(params.MaxTokens))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return "", err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := gm.GenerateContent(callCtx, genai.Text(prompt))
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		text := responseText(resp)
		if text == "" {
			// Blocked or empty candidates count as a failed attempt.
			lastErr = fmt.Errorf("attempt %d: empty response", attempt+1)
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: after %d attempts: %v", models.ErrGeneration, c.maxRetries+1, lastErr)
}

// responseText flattens the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
