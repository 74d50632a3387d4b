package models

// InteractionRecorded is published when a provisional record has been
// persisted.
type InteractionRecorded struct {
	EventType     string `json:"eventType"`
	EventID       string `json:"eventId"`
	InteractionID int64  `json:"interactionId"`
	CustomerID    string `json:"customerId"`
	MessageID     string `json:"messageId"`
	Timestamp     int64  `json:"timestamp"`
}

// InteractionConfirmed is published when a sender confirms a provisional
// record. RowsAffected is 0 when nothing was pending.
type InteractionConfirmed struct {
	EventType    string `json:"eventType"`
	EventID      string `json:"eventId"`
	CustomerID   string `json:"customerId"`
	RowsAffected int64  `json:"rowsAffected"`
	Timestamp    int64  `json:"timestamp"`
}
