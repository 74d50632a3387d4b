package models

// WebhookPayload is the nested entry/changes/value shape delivered by the
// WhatsApp Business webhook.
type WebhookPayload struct {
	Entry []WebhookEntry `json:"entry"`
}

// WebhookEntry is one entry in a webhook delivery.
type WebhookEntry struct {
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange wraps the value object carrying the messages.
type WebhookChange struct {
	Value WebhookValue `json:"value"`
}

// WebhookValue carries the inbound messages. The list may be empty, e.g.
// for status-only deliveries.
type WebhookValue struct {
	Messages []InboundMessage `json:"messages"`
}

// InboundMessage is a single platform message. Type discriminates which of
// the optional content fields is set.
type InboundMessage struct {
	ID    string        `json:"id"`
	From  string        `json:"from"`
	Type  string        `json:"type"`
	Audio *AudioContent `json:"audio,omitempty"`
	Text  *TextContent  `json:"text,omitempty"`
}

// AudioContent holds the opaque media reference of a voice message.
type AudioContent struct {
	ID string `json:"id"`
}

// TextContent holds the body of a text message.
type TextContent struct {
	Body string `json:"body"`
}
