// Package whatsapp is the client for the WhatsApp Business (Graph) API:
// media resolution and download, and outbound text messages.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"wa-interaction-ingress-service/internal/config"
)

// Client talks to the Graph API with bearer authentication. All calls have
// bounded timeouts; a stalled platform fails the call, not the process.
type Client struct {
	baseURL        string
	token          string
	phoneNumberID  string
	lookupClient   *http.Client
	downloadClient *http.Client
	sendClient     *http.Client
}

// NewClient creates a Graph API client from configuration.
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		baseURL:        cfg.GraphBaseURL,
		token:          cfg.Token,
		phoneNumberID:  cfg.PhoneNumberID,
		lookupClient:   &http.Client{Timeout: cfg.LookupTimeout},
		downloadClient: &http.Client{Timeout: cfg.DownloadTimeout},
		sendClient:     &http.Client{Timeout: cfg.SendTimeout},
	}
}

type mediaInfo struct {
	URL string `json:"url"`
}

// ResolveMedia resolves an opaque media id to a short-lived download URL.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: build media lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.lookupClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: media lookup for %q: %w", mediaID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whatsapp: media lookup for %q: unexpected status %d", mediaID, resp.StatusCode)
	}

	var info mediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("whatsapp: decode media info for %q: %w", mediaID, err)
	}
	if info.URL == "" {
		return "", fmt.Errorf("whatsapp: media info for %q has no url", mediaID)
	}
	return info.URL, nil
}

// Download fetches the raw audio bytes from a previously resolved media URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: download media: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: read media body: %w", err)
	}
	return data, nil
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a text message to the recipient through the platform.
// Fire and forget: no delivery receipt is consumed.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal text message: %w", err)
	}

	url := c.baseURL + "/" + c.phoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.sendClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send text to %q: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp: send text to %q: unexpected status %d", to, resp.StatusCode)
	}
	return nil
}
