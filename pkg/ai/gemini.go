package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

// GeminiClient is a minimal client for the Google Generative Language API
type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *resty.Client
}

// modelCandidate pairs an API version with a model name. Availability of
// Gemini models differs per API version and shifts over time, so requests
// walk this list until one succeeds.
type modelCandidate struct {
	Version string
	Model   string
}

var defaultModelCandidates = []modelCandidate{
	{"v1", "gemini-2.0-flash"},
	{"v1", "gemini-2.0-flash-lite"},
	{"v1beta", "gemini-2.0-flash"},
	{"v1", "gemini-1.5-flash-latest"},
	{"v1beta", "gemini-1.5-flash-latest"},
	{"v1beta", "gemini-1.5-flash"},
}

// NewGeminiClient creates a Gemini client using values from the provided config
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		http:    httpClient,
	}
}

// IsConfigured reports whether an API key is available
func (g *GeminiClient) IsConfigured() bool {
	return g.apiKey != ""
}

// generateRequest is the request shape for :generateContent
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// generateResponse is a minimal response shape for :generateContent
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends a prompt to Gemini, walking the model candidate list
// until one model answers. Returns the generated text and the model that
// produced it.
func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string, temperature float64) (string, string, error) {
	if !g.IsConfigured() {
		return "", "", fmt.Errorf("gemini api key not configured")
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: 2048,
		},
	}

	var lastErr error
	for _, candidate := range defaultModelCandidates {
		endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent", g.baseURL, candidate.Version, candidate.Model)

		var result generateResponse
		resp, err := g.http.R().
			SetContext(ctx).
			SetQueryParam("key", g.apiKey).
			SetBody(body).
			SetResult(&result).
			Post(endpoint)
		if err != nil {
			lastErr = fmt.Errorf("gemini request to %s/%s failed: %w", candidate.Version, candidate.Model, err)
			continue
		}

		if resp.IsError() {
			lastErr = fmt.Errorf("gemini %s/%s returned status %d", candidate.Version, candidate.Model, resp.StatusCode())
			continue
		}

		text := extractText(&result)
		if text == "" {
			lastErr = fmt.Errorf("gemini %s/%s returned empty response", candidate.Version, candidate.Model)
			continue
		}

		return text, candidate.Model, nil
	}

	return "", "", fmt.Errorf("all gemini models failed: %w", lastErr)
}

// extractText joins the text parts of the first candidate
func extractText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}
