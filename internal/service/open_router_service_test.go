package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(t *testing.T, handler http.HandlerFunc) *OpenRouterService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewOpenRouterService(config.OpenRouterConfig{
		APIKey:  "or-key",
		Model:   "openai/gpt-4o-mini",
		BaseURL: srv.URL + "/api/v1/",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return svc
}

func TestOpenRouterAnalyze(t *testing.T) {
	var got struct {
		Model    string              `json:"model"`
		Messages []map[string]string `json:"messages"`
	}
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"resume_score\": 70}"}}]}`))
	})

	text, err := svc.Analyze(context.Background(), "analyze this")
	require.NoError(t, err)
	assert.Equal(t, `{"resume_score": 70}`, text)
	assert.Equal(t, "openai/gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[1]["role"])
	assert.Equal(t, "analyze this", got.Messages[1]["content"])
}

func TestOpenRouterAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, wantIs: ErrQuotaExceeded},
		{name: "server error", status: http.StatusBadGateway, body: `{"error":{"message":"upstream down"}}`, wantMsg: "status 502: upstream down"},
		{name: "error in ok body", status: http.StatusOK, body: `{"error":{"message":"model overloaded"}}`, wantMsg: "model overloaded"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantIs: ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Analyze(context.Background(), "prompt")
			require.Error(t, err)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				require.ErrorContains(t, err, tt.wantMsg)
			}
		})
	}
}

func TestNewOpenRouterServiceRequiresKey(t *testing.T) {
	_, err := NewOpenRouterService(config.OpenRouterConfig{})
	require.Error(t, err)
}
