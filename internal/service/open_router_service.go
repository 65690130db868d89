package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"
	"github.com/tidwall/gjson"
)

const openRouterSystemPrompt = "You are a technical resume analyzer. Reply with a single JSON object."

// OpenRouterService talks to any OpenAI-compatible chat completions endpoint.
type OpenRouterService struct {
	client *resty.Client
	model  string
}

func NewOpenRouterService(cfg config.OpenRouterConfig) (*OpenRouterService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY not set")
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &OpenRouterService{client: client, model: cfg.Model}, nil
}

func (s *OpenRouterService) Analyze(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": openRouterSystemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}

	body := resp.String()
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("openrouter: %w: %s", ErrQuotaExceeded, gjson.Get(body, "error.message").String())
	}
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("openrouter: status %d: %s", resp.StatusCode(), msg)
	}

	// some providers report failures inside a 200 body
	if errMsg := gjson.Get(body, "error.message"); errMsg.Exists() {
		return "", fmt.Errorf("openrouter: %s", errMsg.String())
	}

	content := gjson.Get(body, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("openrouter: %w", ErrEmptyResponse)
	}

	log.Info().Str("model", s.model).Int("chars", len(content.String())).Msg("openrouter response received")
	return content.String(), nil
}
