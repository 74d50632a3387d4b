// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/service/stt"
)

// Adapter implements stt.Adapter using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	languageCode string
	sampleRateHz int
}

// Compile-time interface check.
var _ stt.Adapter = (*Adapter)(nil)

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg config.STTConfig) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google stt: new client: %w", err)
	}
	return &Adapter{
		client:       c,
		languageCode: cfg.LanguageCode,
		sampleRateHz: cfg.SampleRateHz,
	}, nil
}

// Transcribe runs a synchronous recognition over the full voice note.
// WhatsApp voice notes are ogg/opus.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_OGG_OPUS,
			SampleRateHertz: int32(a.sampleRateHz),
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("google stt: recognize: %w", err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(result.Alternatives[0].Transcript)
	}
	return sb.String(), nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "google"
}

// Close releases the underlying client connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}
