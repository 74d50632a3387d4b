package events

import (
	"context"
	"testing"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"nil brokers", &Config{Enabled: true, Brokers: nil}},
		{"nil config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerRecorded != nil {
				t.Error("expected nil recorded writer when disabled")
			}
			if p.writerConfirmed != nil {
				t.Error("expected nil confirmed writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		Brokers:        []string{"localhost:9092"},
		TopicRecorded:  "test.recorded",
		TopicConfirmed: "test.confirmed",
		Principal:      "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicRecorded != "test.recorded" {
		t.Errorf("expected topic recorded 'test.recorded', got %s", p.topicRecorded)
	}
	if p.topicConfirmed != "test.confirmed" {
		t.Errorf("expected topic confirmed 'test.confirmed', got %s", p.topicConfirmed)
	}
}

func TestPublisher_PublishRecorded_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := map[string]string{"customerId": "491700000001"}
	if err := p.PublishRecorded(context.Background(), "491700000001", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishConfirmed_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := map[string]string{"customerId": "491700000001"}
	if err := p.PublishConfirmed(context.Background(), "491700000001", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}
