// Package whisper provides an STT adapter for OpenAI-compatible audio
// transcription endpoints, including self-hosted whisper servers.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/service/stt"
)

// Adapter implements stt.Adapter using the OpenAI audio transcription API.
type Adapter struct {
	client openai.Client
	model  string
}

// Compile-time interface check.
var _ stt.Adapter = (*Adapter)(nil)

// New creates a whisper adapter from configuration. WhisperBaseURL may point
// at the OpenAI API or at a local whisper server speaking the same protocol.
func New(cfg config.STTConfig) *Adapter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.WhisperAPIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.WhisperTimeout}),
	}
	if cfg.WhisperBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.WhisperBaseURL))
	}

	return &Adapter{
		client: openai.NewClient(opts...),
		model:  cfg.WhisperModel,
	}
}

// Transcribe sends the audio to the transcription endpoint and returns the
// recognized text. WhatsApp voice notes arrive as ogg/opus.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := a.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(a.model),
		File:  openai.File(bytes.NewReader(audio), "voice-note.ogg", "audio/ogg"),
	})
	if err != nil {
		return "", fmt.Errorf("whisper: transcribe: %w", err)
	}
	return resp.Text, nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "whisper"
}
