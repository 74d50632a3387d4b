// Package stt defines the interface for Speech-to-Text adapters.
package stt

import "context"

// Adapter defines the interface for STT providers (Whisper, Google, etc.).
// Implementations must honor ctx cancellation and deadlines.
type Adapter interface {
	// Transcribe converts audio bytes to plain text. An empty transcript is
	// a valid result for silent or unintelligible audio.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Provider returns the provider name used in logs and metrics.
	Provider() string
}
