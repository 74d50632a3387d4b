// Package http exposes the inbound webhook endpoint for the messaging
// platform.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"wa-interaction-ingress-service/internal/models"
	"wa-interaction-ingress-service/internal/observability/logging"
	"wa-interaction-ingress-service/internal/observability/metrics"
)

// ConfirmationPipeline drives the two webhook-triggered operations.
// *pipeline.Pipeline satisfies this interface.
type ConfirmationPipeline interface {
	Submit(ctx context.Context, msg models.InboundMessage) error
	Confirm(ctx context.Context, sender string) error
}

// affirmativeTokens are the trimmed, lowercased text bodies accepted as a
// confirming event.
var affirmativeTokens = map[string]bool{
	"👍": true,
	"ok": true,
}

// WebhookHandler handles platform verification handshakes and event
// deliveries.
type WebhookHandler struct {
	verifyToken string
	pipeline    ConfirmationPipeline
	metrics     *metrics.Metrics
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(verifyToken string, p ConfirmationPipeline) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		pipeline:    p,
		metrics:     metrics.DefaultMetrics,
	}
}

// Verify handles the GET handshake. The challenge is echoed only on a token
// match; anything else is rejected without leaking the challenge value.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if h.verifyToken == "" || q.Get("hub.verify_token") != h.verifyToken {
		http.Error(w, "Unauthorized", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

// Receive handles the POST event delivery. Per-message failures are logged
// and never fail the delivery: a non-200 would make the platform retry the
// whole batch.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithComponent("webhook")

	var payload models.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		writeError(w, http.StatusBadRequest, "payload missing entry/changes/value shape")
		return
	}

	value := payload.Entry[0].Changes[0].Value
	for _, msg := range value.Messages {
		h.metrics.RecordMessage(msg.Type)

		switch {
		case msg.Type == "audio":
			if err := h.pipeline.Submit(r.Context(), msg); err != nil {
				logger.Error().
					Err(err).
					Str("customerId", msg.From).
					Str("messageId", msg.ID).
					Msg("Submit failed")
			}
		case msg.Type == "text" && msg.Text != nil && isAffirmative(msg.Text.Body):
			if err := h.pipeline.Confirm(r.Context(), msg.From); err != nil {
				logger.Error().
					Err(err).
					Str("customerId", msg.From).
					Msg("Confirm failed")
			}
		default:
			// Other message types and non-affirmative texts are ignored.
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func isAffirmative(body string) bool {
	return affirmativeTokens[strings.ToLower(strings.TrimSpace(body))]
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
