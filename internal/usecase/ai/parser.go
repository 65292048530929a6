package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
)

// SummaryResult is the structured analysis extracted from the model response
type SummaryResult struct {
	Summary        string   `json:"summary"`
	Highlights     []string `json:"highlights"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore float64  `json:"sentiment_score"`
	NextSteps      []string `json:"next_steps"`
	Concerns       []string `json:"concerns"`
}

// Parser handles parsing and validation of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummaryResponse parses the JSON response from the model into a SummaryResult
func (p *Parser) ParseSummaryResponse(raw string) (*SummaryResult, error) {
	// The model may wrap the JSON in markdown code blocks
	raw = extractJSON(raw)

	var result SummaryResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if result.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	result.Sentiment = normalizeSentiment(result.Sentiment)
	if result.SentimentScore < -1 {
		result.SentimentScore = -1
	}
	if result.SentimentScore > 1 {
		result.SentimentScore = 1
	}

	if result.Highlights == nil {
		result.Highlights = make([]string, 0)
	}
	if result.NextSteps == nil {
		result.NextSteps = make([]string, 0)
	}
	if result.Concerns == nil {
		result.Concerns = make([]string, 0)
	}

	return &result, nil
}

// normalizeSentiment maps free-form model output onto the known sentiment values
func normalizeSentiment(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "very positive", "good":
		return string(entities.SentimentPositive)
	case "negative", "very negative", "bad":
		return string(entities.SentimentNegative)
	default:
		return string(entities.SentimentNeutral)
	}
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
