// Package mock provides an in-memory interaction store for tests and local
// development without a database.
package mock

import (
	"context"
	"sync"
	"time"

	"wa-interaction-ingress-service/internal/models"
	"wa-interaction-ingress-service/internal/store"
)

// Store implements store.Store backed by a slice guarded by a mutex. It
// mirrors the Postgres semantics: monotonic ids, message-id dedup, and
// confirm-latest picking the highest unconfirmed id for a customer.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	records    []*models.InteractionRecord
	rawCodes   map[int64]string
	messageIDs map[string]bool

	// InsertErr and ConfirmErr, when set, are returned by the respective
	// operations to simulate storage failures.
	InsertErr  error
	ConfirmErr error
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rawCodes:   make(map[int64]string),
		messageIDs: make(map[string]bool),
	}
}

// InsertProvisional inserts a new unconfirmed record, assigning the next
// monotonic id. Duplicate message ids return store.ErrDuplicateMessage.
func (s *Store) InsertProvisional(ctx context.Context, rec *models.InteractionRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		return 0, s.InsertErr
	}
	if rec.MessageID != "" && s.messageIDs[rec.MessageID] {
		return 0, store.ErrDuplicateMessage
	}

	codes, err := store.EncodeObjectionCodes(rec.Fields.ObjectionCodes)
	if err != nil {
		return 0, err
	}

	s.nextID++
	cp := *rec
	cp.ID = s.nextID
	cp.Confirmed = false
	cp.VisitDate = time.Now().UTC().Truncate(24 * time.Hour)
	cp.CreatedAt = time.Now().UTC()

	s.records = append(s.records, &cp)
	s.rawCodes[cp.ID] = codes
	if cp.MessageID != "" {
		s.messageIDs[cp.MessageID] = true
	}
	rec.ID = cp.ID
	return cp.ID, nil
}

// ConfirmLatest flips the unconfirmed record with the highest id for the
// customer. Returns 0 when nothing is pending.
func (s *Store) ConfirmLatest(ctx context.Context, customerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ConfirmErr != nil {
		return 0, s.ConfirmErr
	}

	var latest *models.InteractionRecord
	for _, r := range s.records {
		if r.CustomerID != customerID || r.Confirmed {
			continue
		}
		if latest == nil || r.ID > latest.ID {
			latest = r
		}
	}
	if latest == nil {
		return 0, nil
	}
	latest.Confirmed = true
	return 1, nil
}

// Records returns a snapshot of all stored records.
func (s *Store) Records() []models.InteractionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.InteractionRecord, len(s.records))
	for i, r := range s.records {
		out[i] = *r
	}
	return out
}

// RawObjectionCodes returns the serialized objection_codes column for a
// record, as it would be stored.
func (s *Store) RawObjectionCodes(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.rawCodes[id]
	return raw, ok
}
