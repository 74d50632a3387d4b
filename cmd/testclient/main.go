package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"wa-interaction-ingress-service/internal/models"
)

// Replays a webhook conversation against a locally running ingress service:
// the verification handshake, a voice-note delivery, and an affirmative reply.
func main() {
	base := flag.String("addr", "http://localhost:4000", "ingress base URL")
	verifyToken := flag.String("verify-token", "dev-verify-token", "configured VERIFY_TOKEN")
	sender := flag.String("sender", "15551230001", "sender wa_id")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	// Verification handshake
	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", *verifyToken)
	q.Set("hub.challenge", "314159")
	resp, err := client.Get(*base + "/webhook?" + q.Encode())
	if err != nil {
		log.Fatalf("handshake failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	log.Printf("Handshake: status=%d body=%s", resp.StatusCode, body)

	// Voice-note delivery
	post(client, *base, payload(models.InboundMessage{
		ID:    "wamid.TEST-" + time.Now().Format("150405"),
		From:  *sender,
		Type:  "audio",
		Audio: &models.AudioContent{ID: "media-123"},
	}))

	time.Sleep(500 * time.Millisecond)

	// Affirmative reply
	post(client, *base, payload(models.InboundMessage{
		ID:   "wamid.TEST-ACK-" + time.Now().Format("150405"),
		From: *sender,
		Type: "text",
		Text: &models.TextContent{Body: "👍"},
	}))
}

func payload(msg models.InboundMessage) models.WebhookPayload {
	return models.WebhookPayload{
		Entry: []models.WebhookEntry{{
			Changes: []models.WebhookChange{{
				Value: models.WebhookValue{
					Messages: []models.InboundMessage{msg},
				},
			}},
		}},
	}
}

func post(client *http.Client, base string, p models.WebhookPayload) {
	buf, err := json.Marshal(p)
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}
	resp, err := client.Post(base+"/webhook", "application/json", bytes.NewReader(buf))
	if err != nil {
		log.Fatalf("post failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	log.Printf("Delivery: status=%d body=%s", resp.StatusCode, body)
}
