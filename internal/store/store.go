// Package store persists interaction records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wa-interaction-ingress-service/internal/models"
)

// ErrDuplicateMessage is returned by InsertProvisional when a record for the
// same platform message id already exists. Webhook deliveries are
// at-least-once, so redeliveries are expected and must not create a second
// provisional row.
var ErrDuplicateMessage = errors.New("store: duplicate platform message id")

// Store persists interaction records. Implementations must be safe for
// concurrent use; in particular two concurrent ConfirmLatest calls for the
// same customer must flip at most one row between them.
type Store interface {
	// InsertProvisional inserts a new record with confirmed=false and
	// returns its interaction id. Returns ErrDuplicateMessage when the
	// record's message id was already inserted.
	InsertProvisional(ctx context.Context, rec *models.InteractionRecord) (int64, error)

	// ConfirmLatest atomically sets confirmed=true on the most recently
	// created unconfirmed record for the customer. Returns the number of
	// rows affected (0 or 1); zero rows is not an error.
	ConfirmLatest(ctx context.Context, customerID string) (int64, error)
}

// EncodeObjectionCodes serializes an ordered objection-code sequence to its
// stored textual form. A nil or empty sequence encodes as "[]".
func EncodeObjectionCodes(codes []string) (string, error) {
	if codes == nil {
		codes = []string{}
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return "", fmt.Errorf("store: encode objection codes: %w", err)
	}
	return string(b), nil
}

// DecodeObjectionCodes parses the stored textual form back into the ordered
// sequence written by EncodeObjectionCodes.
func DecodeObjectionCodes(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(s), &codes); err != nil {
		return nil, fmt.Errorf("store: decode objection codes: %w", err)
	}
	return codes, nil
}
