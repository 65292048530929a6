package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

func newTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
}

func TestGenerateContent_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("missing api key query param")
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Hello from Gemini"}},
				}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)

	text, model, err := client.GenerateContent(context.Background(), "say hello", 0.4)
	require.NoError(t, err)
	assert.Equal(t, "Hello from Gemini", text)
	assert.Equal(t, "gemini-2.0-flash", model)
}

func TestGenerateContent_ModelFallback(t *testing.T) {
	// First candidate path 404s, a later one answers
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "gemini-2.0-flash:") {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 404, "message": "model not found"},
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "fallback reply"}},
				}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)

	text, model, err := client.GenerateContent(context.Background(), "prompt", 0.4)
	require.NoError(t, err)
	assert.Equal(t, "fallback reply", text)
	assert.Equal(t, "gemini-2.0-flash-lite", model)
}

func TestGenerateContent_AllModelsFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)

	_, _, err := client.GenerateContent(context.Background(), "prompt", 0.4)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all gemini models failed")
}

func TestGenerateContent_NotConfigured(t *testing.T) {
	client := NewGeminiClient(&config.GeminiConfig{Timeout: time.Second})

	_, _, err := client.GenerateContent(context.Background(), "prompt", 0.4)
	assert.Error(t, err)
}
