// Package mock provides a mock STT adapter for testing without a speech
// backend. It cycles through canned sales-visit transcripts.
package mock

import (
	"context"
	"sync"

	"wa-interaction-ingress-service/internal/service/stt"
)

// DefaultTranscripts provides sample transcripts for simulation.
var DefaultTranscripts = []string{
	"Customer looked at the X5 today, wants a test drive next week, worried about the price",
	"Walk-in asked about financing for the Corolla, no test drive, will decide within thirty days",
	"Returning customer compared us with the Audi dealer, objections were delivery time and color",
}

// Adapter implements stt.Adapter with canned transcripts. Each Transcribe
// call returns the next transcript in the cycle.
type Adapter struct {
	mu          sync.Mutex
	next        int
	transcripts []string

	// Err, when set, is returned by Transcribe to simulate provider
	// failures.
	Err error
}

// Compile-time interface check.
var _ stt.Adapter = (*Adapter)(nil)

// New creates a mock adapter cycling through DefaultTranscripts.
func New() *Adapter {
	return &Adapter{transcripts: DefaultTranscripts}
}

// NewWithTranscripts creates a mock adapter with custom transcripts.
func NewWithTranscripts(transcripts []string) *Adapter {
	return &Adapter{transcripts: transcripts}
}

// Transcribe returns the next canned transcript, ignoring the audio bytes.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return "", a.Err
	}
	if len(a.transcripts) == 0 {
		return "", nil
	}
	text := a.transcripts[a.next%len(a.transcripts)]
	a.next++
	return text, nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "mock"
}
