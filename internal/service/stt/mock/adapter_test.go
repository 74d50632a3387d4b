package mock

import (
	"context"
	"errors"
	"testing"
)

func TestTranscribe_CyclesThroughTranscripts(t *testing.T) {
	a := NewWithTranscripts([]string{"first", "second"})

	got := make([]string, 3)
	for i := range got {
		text, err := a.Transcribe(context.Background(), []byte("audio"))
		if err != nil {
			t.Fatalf("transcribe %d: %v", i, err)
		}
		got[i] = text
	}

	want := []string{"first", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTranscribe_SimulatedError(t *testing.T) {
	a := New()
	a.Err = errors.New("provider unavailable")

	if _, err := a.Transcribe(context.Background(), nil); err == nil {
		t.Error("expected simulated error")
	}
}

func TestTranscribe_EmptyTranscripts(t *testing.T) {
	a := NewWithTranscripts(nil)

	text, err := a.Transcribe(context.Background(), nil)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty transcript, got %q", text)
	}
}
