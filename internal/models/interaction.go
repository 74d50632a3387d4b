// Package models defines the data structures for sales interactions and
// inbound webhook payloads.
package models

import "time"

// ExtractedFields is the structured sales-interaction mapping produced by
// the extraction service. Every field is nullable: keys the model could not
// determine decode to nil and persist as NULL.
type ExtractedFields struct {
	SalespersonID    *string  `json:"salesperson_id"`
	DesiredModel     *string  `json:"desired_model"`
	IntentWindowDays *int     `json:"intent_window_days"`
	TestDriveFlag    *bool    `json:"test_drive_flag"`
	TestDriveScore   *float64 `json:"test_drive_score"`
	StockFlag        *bool    `json:"stock_flag"`
	FinancingFlag    *bool    `json:"financing_flag"`
	ObjectionCodes   []string `json:"objection_codes"`
	Outcome          *string  `json:"outcome"`
	CompetitorBrand  *string  `json:"competitor_brand"`
}

// InteractionRecord is one row of fact_interaction: a single voice-message
// submission. Records are immutable except for the one-way Confirmed
// transition.
type InteractionRecord struct {
	ID         int64
	CustomerID string
	MessageID  string
	VisitDate  time.Time
	Fields     ExtractedFields
	Confirmed  bool
	CreatedAt  time.Time
}
