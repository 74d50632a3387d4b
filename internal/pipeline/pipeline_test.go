package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"wa-interaction-ingress-service/internal/events"
	"wa-interaction-ingress-service/internal/models"
	sttmock "wa-interaction-ingress-service/internal/service/stt/mock"
	storemock "wa-interaction-ingress-service/internal/store/mock"
)

// fakeMedia resolves every media id to one canned audio payload.
type fakeMedia struct {
	resolveErr  error
	downloadErr error
}

func (f *fakeMedia) ResolveMedia(ctx context.Context, mediaID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return "https://cdn.example.com/" + mediaID, nil
}

func (f *fakeMedia) Download(ctx context.Context, url string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return []byte("ogg-opus-bytes"), nil
}

// fakeExtractor returns fixed fields.
type fakeExtractor struct {
	fields models.ExtractedFields
	err    error
}

func (f *fakeExtractor) Extract(ctx context.Context, text, sender string) (models.ExtractedFields, error) {
	return f.fields, f.err
}

// fakeNotifier records sent messages.
type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (f *fakeNotifier) SendText(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, body)
	return nil
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func audioMessage(id, from string) models.InboundMessage {
	return models.InboundMessage{
		ID:    id,
		From:  from,
		Type:  "audio",
		Audio: &models.AudioContent{ID: "media-" + id},
	}
}

func newTestPipeline(st *storemock.Store, media *fakeMedia, ex *fakeExtractor, n *fakeNotifier) *Pipeline {
	return New(media, sttmock.New(), ex, st, n, events.New(&events.Config{Enabled: false}))
}

func TestSubmit_CreatesOneProvisionalRecordAndPrompts(t *testing.T) {
	st := storemock.New()
	notifier := &fakeNotifier{}
	extractor := &fakeExtractor{fields: models.ExtractedFields{
		DesiredModel:     strPtr("X5"),
		IntentWindowDays: intPtr(14),
		ObjectionCodes:   []string{"price", "color"},
	}}
	p := newTestPipeline(st, &fakeMedia{}, extractor, notifier)

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err != nil {
		t.Fatalf("submit: %v", err)
	}

	records := st.Records()
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	rec := records[0]
	if rec.Confirmed {
		t.Error("expected provisional record with confirmed=false")
	}
	if rec.CustomerID != "491700000001" {
		t.Errorf("expected customer id stamped from sender, got %q", rec.CustomerID)
	}
	if rec.Fields.DesiredModel == nil || *rec.Fields.DesiredModel != "X5" {
		t.Errorf("expected persisted desired_model X5, got %v", rec.Fields.DesiredModel)
	}

	sent := notifier.messages()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one confirmation prompt, got %d", len(sent))
	}
	if !strings.Contains(sent[0], "X5") {
		t.Errorf("expected prompt to contain the model name, got %q", sent[0])
	}
	if !strings.Contains(sent[0], "price, color") {
		t.Errorf("expected prompt to contain the objection list, got %q", sent[0])
	}
}

func TestSubmit_TranscriberFailure_NoRecordNoPrompt(t *testing.T) {
	st := storemock.New()
	notifier := &fakeNotifier{}
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{}, notifier)

	transcriber := sttmock.New()
	transcriber.Err = errors.New("stt timeout")
	p.transcriber = transcriber

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err == nil {
		t.Fatal("expected submit to fail")
	}

	if len(st.Records()) != 0 {
		t.Errorf("expected no record after transcriber failure, got %d", len(st.Records()))
	}
	if len(notifier.messages()) != 0 {
		t.Error("expected no prompt after transcriber failure")
	}

	// The pipeline keeps serving after a collaborator failure.
	transcriber.Err = nil
	if err := p.Submit(context.Background(), audioMessage("wamid.2", "491700000001")); err != nil {
		t.Fatalf("expected subsequent submit to succeed, got %v", err)
	}
	if len(st.Records()) != 1 {
		t.Errorf("expected one record from the second submit, got %d", len(st.Records()))
	}
}

func TestSubmit_MediaResolveFailure_NoRecord(t *testing.T) {
	st := storemock.New()
	p := newTestPipeline(st, &fakeMedia{resolveErr: errors.New("expired reference")}, &fakeExtractor{}, &fakeNotifier{})

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err == nil {
		t.Fatal("expected submit to fail")
	}
	if len(st.Records()) != 0 {
		t.Errorf("expected no record, got %d", len(st.Records()))
	}
}

func TestSubmit_ExtractionFailure_NoRecord(t *testing.T) {
	st := storemock.New()
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{err: errors.New("invalid output")}, &fakeNotifier{})

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err == nil {
		t.Fatal("expected submit to fail")
	}
	if len(st.Records()) != 0 {
		t.Errorf("expected no placeholder record after extraction failure, got %d", len(st.Records()))
	}
}

func TestSubmit_NotifyFailureAfterInsert_Tolerated(t *testing.T) {
	st := storemock.New()
	notifier := &fakeNotifier{err: errors.New("send failed")}
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{}, notifier)

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err != nil {
		t.Fatalf("expected notify failure to be tolerated, got %v", err)
	}
	if len(st.Records()) != 1 {
		t.Errorf("expected the record to survive the notify failure, got %d records", len(st.Records()))
	}
}

func TestSubmit_Redelivery_SkipsDuplicate(t *testing.T) {
	st := storemock.New()
	notifier := &fakeNotifier{}
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{}, notifier)

	msg := audioMessage("wamid.dup", "491700000001")
	if err := p.Submit(context.Background(), msg); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := p.Submit(context.Background(), msg); err != nil {
		t.Fatalf("redelivered submit: %v", err)
	}

	if len(st.Records()) != 1 {
		t.Errorf("expected one record after redelivery, got %d", len(st.Records()))
	}
	if len(notifier.messages()) != 1 {
		t.Errorf("expected one prompt after redelivery, got %d", len(notifier.messages()))
	}
}

func TestSubmit_NoAudioReference(t *testing.T) {
	p := newTestPipeline(storemock.New(), &fakeMedia{}, &fakeExtractor{}, &fakeNotifier{})

	msg := models.InboundMessage{ID: "wamid.1", From: "491700000001", Type: "audio"}
	if err := p.Submit(context.Background(), msg); err == nil {
		t.Error("expected error for audio message without media reference")
	}
}

func TestConfirm_FlipsLatestAndAcknowledges(t *testing.T) {
	st := storemock.New()
	notifier := &fakeNotifier{}
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{}, notifier)

	if err := p.Submit(context.Background(), audioMessage("wamid.1", "491700000001")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := p.Confirm(context.Background(), "491700000001"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	records := st.Records()
	if len(records) != 1 || !records[0].Confirmed {
		t.Error("expected the record to be confirmed")
	}

	sent := notifier.messages()
	if len(sent) != 2 {
		t.Fatalf("expected prompt plus acknowledgement, got %d messages", len(sent))
	}
	if !strings.Contains(sent[1], "Saved") {
		t.Errorf("expected saved acknowledgement, got %q", sent[1])
	}
}

func TestConfirm_NothingPending_DistinctAcknowledgement(t *testing.T) {
	notifier := &fakeNotifier{}
	p := newTestPipeline(storemock.New(), &fakeMedia{}, &fakeExtractor{}, notifier)

	if err := p.Confirm(context.Background(), "491700000001"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	sent := notifier.messages()
	if len(sent) != 1 {
		t.Fatalf("expected one acknowledgement, got %d", len(sent))
	}
	if strings.Contains(sent[0], "Saved") {
		t.Errorf("expected a distinct nothing-pending acknowledgement, got %q", sent[0])
	}
}

func TestConfirm_StorageFailure_Surfaced(t *testing.T) {
	st := storemock.New()
	st.ConfirmErr = errors.New("connection lost")
	notifier := &fakeNotifier{}
	p := newTestPipeline(st, &fakeMedia{}, &fakeExtractor{}, notifier)

	if err := p.Confirm(context.Background(), "491700000001"); err == nil {
		t.Fatal("expected storage failure to surface")
	}
	if len(notifier.messages()) != 0 {
		t.Error("expected no acknowledgement after storage failure")
	}
}

func TestConfirmationMessage_UnknownFields(t *testing.T) {
	msg := ConfirmationMessage(models.ExtractedFields{})

	if !strings.Contains(msg, "Model: unknown") {
		t.Errorf("expected unknown model, got %q", msg)
	}
	if !strings.Contains(msg, "Objections: None") {
		t.Errorf("expected 'None' for empty objections, got %q", msg)
	}
}
