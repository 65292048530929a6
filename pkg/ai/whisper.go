package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

// WhisperClient wraps the OpenAI audio transcription API
type WhisperClient struct {
	client openai.Client
	model  string
	apiKey string
}

// TranscriptionResult holds the outcome of a transcription request
type TranscriptionResult struct {
	Text     string
	Language string
	Model    string
}

// NewWhisperClient creates a Whisper client using values from the provided config
func NewWhisperClient(cfg *config.OpenAIConfig) *WhisperClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	return &WhisperClient{
		client: openai.NewClient(opts...),
		model:  model,
		apiKey: cfg.APIKey,
	}
}

// IsConfigured reports whether an API key is available
func (w *WhisperClient) IsConfigured() bool {
	return w.apiKey != ""
}

// Transcribe submits an audio stream to the transcription API and returns the text
func (w *WhisperClient) Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (*TranscriptionResult, error) {
	if !w.IsConfigured() {
		return nil, fmt.Errorf("openai api key not configured")
	}

	if filename == "" {
		filename = "audio.m4a"
	}
	if contentType == "" {
		contentType = "audio/mp4"
	}

	transcription, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, contentType),
		Model: openai.AudioModel(w.model),
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	if transcription.Text == "" {
		return nil, fmt.Errorf("whisper returned empty transcript")
	}

	return &TranscriptionResult{
		Text:  transcription.Text,
		Model: w.model,
	}, nil
}
