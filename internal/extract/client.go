// Package extract is the client for the field-extraction service.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/models"
)

// ErrInvalidOutput is returned when the extraction service reports that the
// language model could not produce a valid field mapping. Callers must treat
// this as a collaborator failure and persist nothing.
var ErrInvalidOutput = errors.New("extract: extraction service returned invalid output")

// Request is the extraction request body.
type Request struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// Client calls the extraction service over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates an extraction client from configuration.
func NewClient(cfg config.ExtractorConfig) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Extract sends the transcript to the extraction service and decodes the
// structured field mapping. Keys absent from the response decode to nil
// fields, not errors.
func (c *Client) Extract(ctx context.Context, text, sender string) (models.ExtractedFields, error) {
	var fields models.ExtractedFields

	payload, err := json.Marshal(Request{Text: text, Sender: sender})
	if err != nil {
		return fields, fmt.Errorf("extract: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fields, fmt.Errorf("extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fields, fmt.Errorf("extract: call extraction service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fields, ErrInvalidOutput
	case resp.StatusCode != http.StatusOK:
		return fields, fmt.Errorf("extract: extraction service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return fields, fmt.Errorf("extract: decode response: %w", err)
	}
	return fields, nil
}
