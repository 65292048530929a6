package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryResponse_PlainJSON(t *testing.T) {
	parser := NewParser()

	result, err := parser.ParseSummaryResponse(`{
		"summary": "Customer agreed to a follow-up demo next week.",
		"highlights": ["asked about pricing tiers"],
		"sentiment": "positive",
		"sentiment_score": 0.6,
		"next_steps": ["send demo invite"],
		"concerns": []
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Customer agreed to a follow-up demo next week.", result.Summary)
	assert.Equal(t, []string{"asked about pricing tiers"}, result.Highlights)
	assert.Equal(t, "positive", result.Sentiment)
	assert.InDelta(t, 0.6, result.SentimentScore, 0.001)
	assert.Empty(t, result.Concerns)
}

func TestParseSummaryResponse_MarkdownFenced(t *testing.T) {
	parser := NewParser()

	raw := "```json\n{\"summary\": \"Short call.\", \"sentiment\": \"NEUTRAL\"}\n```"
	result, err := parser.ParseSummaryResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Short call.", result.Summary)
	assert.Equal(t, "neutral", result.Sentiment)
	assert.NotNil(t, result.Highlights)
	assert.NotNil(t, result.NextSteps)
}

func TestParseSummaryResponse_MissingSummary(t *testing.T) {
	parser := NewParser()

	_, err := parser.ParseSummaryResponse(`{"sentiment": "positive"}`)
	require.Error(t, err)
}

func TestParseSummaryResponse_InvalidJSON(t *testing.T) {
	parser := NewParser()

	_, err := parser.ParseSummaryResponse("The call went well, thanks for asking!")
	require.Error(t, err)
}

func TestParseSummaryResponse_ScoreClamped(t *testing.T) {
	parser := NewParser()

	result, err := parser.ParseSummaryResponse(`{"summary": "ok", "sentiment_score": 3.5}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.SentimentScore)

	result, err = parser.ParseSummaryResponse(`{"summary": "ok", "sentiment_score": -2}`)
	require.NoError(t, err)
	assert.Equal(t, -1.0, result.SentimentScore)
}

func TestNormalizeSentiment(t *testing.T) {
	assert.Equal(t, "positive", normalizeSentiment(" Positive "))
	assert.Equal(t, "negative", normalizeSentiment("BAD"))
	assert.Equal(t, "neutral", normalizeSentiment("mixed feelings"))
	assert.Equal(t, "neutral", normalizeSentiment(""))
}
