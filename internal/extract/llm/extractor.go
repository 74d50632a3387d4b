// Package llm implements the field-extraction service: a chat model prompted
// to map a sales-visit transcript to the fixed interaction key set.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/models"
)

// ErrInvalidJSON is returned when the model output cannot be parsed as a
// JSON object.
var ErrInvalidJSON = errors.New("llm: model returned invalid JSON")

const systemPrompt = "You are an extraction engine. Return only valid JSON with keys:\n" +
	"desired_model, intent_window_days, test_drive_flag, test_drive_score,\n" +
	"stock_flag, financing_flag, objection_codes, outcome, competitor_brand,\n" +
	"salesperson_id. Use null for unknown. Do NOT explain."

// Extractor maps transcripts to structured interaction fields via a chat
// completion endpoint.
type Extractor struct {
	client openai.Client
	model  string
}

// New creates an Extractor. LLMBaseURL may point at the OpenAI API or any
// compatible server (llama.cpp, vLLM, Ollama).
func New(cfg config.ExtractorConfig) *Extractor {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.LLMAPIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.LLMTimeout}),
	}
	if cfg.LLMBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLMBaseURL))
	}

	return &Extractor{
		client: openai.NewClient(opts...),
		model:  cfg.LLMModel,
	}
}

// Extract prompts the model with the transcript and parses its completion.
// Returns ErrInvalidJSON when the completion is not a JSON object.
func (e *Extractor) Extract(ctx context.Context, text, sender string) (models.ExtractedFields, error) {
	var fields models.ExtractedFields

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Transcript: %s\nJSON:", text)),
		},
		MaxTokens: openai.Int(512),
	})
	if err != nil {
		return fields, fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fields, ErrInvalidJSON
	}

	return ParseOutput(resp.Choices[0].Message.Content)
}

// ParseOutput parses a model completion into the fixed field set. It
// tolerates surrounding whitespace and markdown code fences. Keys that are
// missing or carry an unexpected type decode as null fields; only a
// completion that is not a JSON object at all is an error.
func ParseOutput(out string) (models.ExtractedFields, error) {
	var fields models.ExtractedFields

	cleaned := strings.TrimSpace(out)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return fields, ErrInvalidJSON
	}

	decodeKey(raw, "salesperson_id", &fields.SalespersonID)
	decodeKey(raw, "desired_model", &fields.DesiredModel)
	decodeKey(raw, "intent_window_days", &fields.IntentWindowDays)
	decodeKey(raw, "test_drive_flag", &fields.TestDriveFlag)
	decodeKey(raw, "test_drive_score", &fields.TestDriveScore)
	decodeKey(raw, "stock_flag", &fields.StockFlag)
	decodeKey(raw, "financing_flag", &fields.FinancingFlag)
	decodeKey(raw, "outcome", &fields.Outcome)
	decodeKey(raw, "competitor_brand", &fields.CompetitorBrand)

	if msg, ok := raw["objection_codes"]; ok {
		var codes []string
		if err := json.Unmarshal(msg, &codes); err == nil {
			fields.ObjectionCodes = codes
		}
	}

	return fields, nil
}

// decodeKey decodes one optional key, leaving dst nil when the key is
// absent, null, or of an unexpected type.
func decodeKey[T any](raw map[string]json.RawMessage, key string, dst **T) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	var v *T
	if err := json.Unmarshal(msg, &v); err != nil {
		return
	}
	*dst = v
}
