// Package pipeline orchestrates the voice-message confirmation flow:
// provisional save on submit, one-way confirm on an affirmative reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wa-interaction-ingress-service/internal/events"
	"wa-interaction-ingress-service/internal/models"
	"wa-interaction-ingress-service/internal/observability/logging"
	"wa-interaction-ingress-service/internal/observability/metrics"
	"wa-interaction-ingress-service/internal/service/stt"
	"wa-interaction-ingress-service/internal/store"
)

// MediaResolver resolves platform media references and downloads the bytes.
// *whatsapp.Client satisfies this interface.
type MediaResolver interface {
	ResolveMedia(ctx context.Context, mediaID string) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Notifier sends a text message to a recipient identifier.
// *whatsapp.Client satisfies this interface.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Extractor maps a transcript to structured interaction fields.
// *extract.Client satisfies this interface.
type Extractor interface {
	Extract(ctx context.Context, text, sender string) (models.ExtractedFields, error)
}

// Pipeline drives submit and confirm operations. All collaborators are
// injected; the pipeline holds no mutable state of its own, so one instance
// serves concurrent webhook deliveries.
type Pipeline struct {
	media       MediaResolver
	transcriber stt.Adapter
	extractor   Extractor
	store       store.Store
	notifier    Notifier
	publisher   *events.Publisher
	metrics     *metrics.Metrics
}

// New creates a Pipeline with the given collaborators.
func New(
	media MediaResolver,
	transcriber stt.Adapter,
	extractor Extractor,
	st store.Store,
	notifier Notifier,
	publisher *events.Publisher,
) *Pipeline {
	return &Pipeline{
		media:       media,
		transcriber: transcriber,
		extractor:   extractor,
		store:       st,
		notifier:    notifier,
		publisher:   publisher,
		metrics:     metrics.DefaultMetrics,
	}
}

// Submit runs the audio pipeline for one inbound voice message: resolve and
// download the media, transcribe, extract fields, persist a provisional
// record, and prompt the sender for confirmation.
//
// A collaborator failure before the insert aborts the operation without
// persisting anything. A notify failure after a successful insert is a
// degraded outcome, not an error: the record stays independently
// confirmable.
func (p *Pipeline) Submit(ctx context.Context, msg models.InboundMessage) error {
	if msg.Audio == nil || msg.Audio.ID == "" {
		return fmt.Errorf("pipeline: submit: message %q has no audio reference", msg.ID)
	}

	logger := logging.WithMessage(msg.From, msg.ID)
	start := time.Now()
	p.metrics.RecordSubmitStart()

	url, err := p.media.ResolveMedia(ctx, msg.Audio.ID)
	if err != nil {
		p.metrics.RecordSubmitFailure("resolve")
		return fmt.Errorf("pipeline: resolve media: %w", err)
	}

	audio, err := p.media.Download(ctx, url)
	if err != nil {
		p.metrics.RecordSubmitFailure("download")
		return fmt.Errorf("pipeline: download media: %w", err)
	}
	p.metrics.RecordMediaDownload(len(audio))

	sttStart := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, audio)
	p.metrics.RecordSTT(p.transcriber.Provider(), err, time.Since(sttStart).Seconds())
	if err != nil {
		p.metrics.RecordSubmitFailure("transcribe")
		return fmt.Errorf("pipeline: transcribe: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		// Valid but low-information result; the extractor decides what,
		// if anything, is extractable.
		logger.Info().Msg("Empty transcript, continuing to extraction")
	}

	extractStart := time.Now()
	fields, err := p.extractor.Extract(ctx, transcript, msg.From)
	p.metrics.RecordExtraction(err, time.Since(extractStart).Seconds())
	if err != nil {
		p.metrics.RecordSubmitFailure("extract")
		return fmt.Errorf("pipeline: extract fields: %w", err)
	}

	rec := &models.InteractionRecord{
		CustomerID: msg.From,
		MessageID:  msg.ID,
		Fields:     fields,
	}
	id, err := p.store.InsertProvisional(ctx, rec)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateMessage) {
			// At-least-once webhook delivery; the sender was already
			// prompted for this message.
			p.metrics.RecordInsert(true)
			logger.Info().Msg("Skipping redelivered voice message")
			return nil
		}
		p.metrics.RecordStoreError("insert")
		p.metrics.RecordSubmitFailure("insert")
		return fmt.Errorf("pipeline: persist provisional record: %w", err)
	}
	p.metrics.RecordInsert(false)

	if err := p.publisher.PublishRecorded(ctx, msg.From, models.InteractionRecorded{
		EventType:     "interaction.recorded",
		EventID:       uuid.NewString(),
		InteractionID: id,
		CustomerID:    msg.From,
		MessageID:     msg.ID,
		Timestamp:     time.Now().UnixMilli(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish recorded event")
	}

	notifyErr := p.notifier.SendText(ctx, msg.From, ConfirmationMessage(fields))
	p.metrics.RecordNotify(notifyErr)
	if notifyErr != nil {
		logger.Warn().
			Err(notifyErr).
			Int64("interactionId", id).
			Msg("Record persisted but confirmation prompt was not delivered")
	}

	p.metrics.RecordSubmitDuration(time.Since(start).Seconds())
	logger.Info().
		Int64("interactionId", id).
		Msg("Provisional interaction recorded")
	return nil
}

// Confirm flips the most recent unconfirmed record for the sender and
// acknowledges the result. Zero pending records is not an error; the sender
// gets a distinct acknowledgement so silent no-ops are observable.
func (p *Pipeline) Confirm(ctx context.Context, sender string) error {
	logger := logging.WithCustomer(sender)

	rows, err := p.store.ConfirmLatest(ctx, sender)
	if err != nil {
		p.metrics.RecordStoreError("confirm")
		p.metrics.RecordConfirm("error")
		return fmt.Errorf("pipeline: confirm latest: %w", err)
	}

	ack := "✅ Saved. Thank you!"
	if rows == 0 {
		ack = "Nothing to confirm yet. Send a voice note first."
		p.metrics.RecordConfirm("nothing_pending")
		logger.Info().Msg("Confirm received with no pending record")
	} else {
		p.metrics.RecordConfirm("confirmed")
		logger.Info().Msg("Interaction confirmed")
	}

	if err := p.publisher.PublishConfirmed(ctx, sender, models.InteractionConfirmed{
		EventType:    "interaction.confirmed",
		EventID:      uuid.NewString(),
		CustomerID:   sender,
		RowsAffected: rows,
		Timestamp:    time.Now().UnixMilli(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish confirmed event")
	}

	notifyErr := p.notifier.SendText(ctx, sender, ack)
	p.metrics.RecordNotify(notifyErr)
	if notifyErr != nil {
		logger.Warn().Err(notifyErr).Msg("Acknowledgement was not delivered")
	}
	return nil
}

// ConfirmationMessage renders the human-readable summary the sender is
// asked to confirm.
func ConfirmationMessage(fields models.ExtractedFields) string {
	objections := "None"
	if len(fields.ObjectionCodes) > 0 {
		objections = strings.Join(fields.ObjectionCodes, ", ")
	}

	var sb strings.Builder
	sb.WriteString("*Please confirm the interaction details:* \n")
	sb.WriteString("• Model: " + stringOrUnknown(fields.DesiredModel) + "\n")
	sb.WriteString("• Test drive: " + boolOrUnknown(fields.TestDriveFlag) + "\n")
	sb.WriteString("• Intent window: " + daysOrUnknown(fields.IntentWindowDays) + "\n")
	sb.WriteString("• Objections: " + objections + "\n\n")
	sb.WriteString("Reply 👍 to confirm or type corrections.")
	return sb.String()
}

func stringOrUnknown(s *string) string {
	if s == nil {
		return "unknown"
	}
	return *s
}

func boolOrUnknown(b *bool) string {
	if b == nil {
		return "unknown"
	}
	if *b {
		return "yes"
	}
	return "no"
}

func daysOrUnknown(n *int) string {
	if n == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d days", *n)
}
