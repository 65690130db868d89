package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/phuslu/log"
	"google.golang.org/genai"
)

const maxEmbeddingBytes = 10000

// GeminiService calls the Gemini API. It holds no per-request state and is safe
// for concurrent use.
type GeminiService struct {
	client         *genai.Client
	model          string
	embeddingModel string
	temperature    float32
	timeout        time.Duration
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	log.Info().
		Str("model", cfg.Model).
		Str("embedding_model", cfg.EmbeddingModel).
		Dur("timeout", cfg.Timeout).
		Msg("gemini client initialized")

	return &GeminiService{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		timeout:        cfg.Timeout,
	}, nil
}

// Analyze sends the prompt once and returns the model's raw text.
func (s *GeminiService) Analyze(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.client.Models.GenerateContent(
		timeoutCtx,
		s.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(s.temperature),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		log.Error().Err(err).Str("model", s.model).Dur("elapsed", time.Since(start)).Msg("gemini generate content failed")
		return "", classifyGeminiError(err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", fmt.Errorf("invalid response: %w", err)
	}

	text := result.Text()
	log.Info().Str("model", s.model).Int("chars", len(text)).Dur("elapsed", time.Since(start)).Msg("gemini response received")
	return text, nil
}

// GenerateEmbedding embeds text for the analysis history similarity search.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.New("text for embedding cannot be empty")
	}
	if len(trimmed) > maxEmbeddingBytes {
		log.Warn().Int("bytes", len(trimmed)).Msg("embedding input exceeds recommended limit, truncating")
		trimmed = truncateUTF8(trimmed, maxEmbeddingBytes)
	}

	timeoutCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.Models.EmbedContent(
		timeoutCtx,
		s.embeddingModel,
		[]*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	return validateEmbeddingResponse(result)
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// classifyGeminiError marks quota failures so callers can report them distinctly.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return fmt.Errorf("gemini: %w: %v", ErrQuotaExceeded, err)
	}
	if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("gemini: %w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return errors.New("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return errors.New("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return errors.New("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, errors.New("no embeddings returned")
	}

	embeddings := resp.Embeddings[0].Values
	if len(embeddings) == 0 {
		return nil, errors.New("embedding vector is empty")
	}
	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embeddings, nil
}
