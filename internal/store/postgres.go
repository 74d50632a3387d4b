package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wa-interaction-ingress-service/internal/models"
)

// Schema is the SQL DDL for the fact_interaction table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS fact_interaction (
    interaction_id     BIGSERIAL PRIMARY KEY,
    customer_id        TEXT NOT NULL,
    message_id         TEXT NOT NULL DEFAULT '',
    visit_date         DATE NOT NULL DEFAULT CURRENT_DATE,
    salesperson_id     TEXT,
    desired_model      TEXT,
    intent_window_days INTEGER,
    test_drive_flag    BOOLEAN,
    test_drive_score   DOUBLE PRECISION,
    stock_flag         BOOLEAN,
    financing_flag     BOOLEAN,
    objection_codes    TEXT,
    outcome            TEXT,
    competitor_brand   TEXT,
    confirmed          BOOLEAN NOT NULL DEFAULT false,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_fact_interaction_pending
    ON fact_interaction(customer_id, interaction_id DESC) WHERE confirmed = false;
CREATE UNIQUE INDEX IF NOT EXISTS idx_fact_interaction_message
    ON fact_interaction(message_id) WHERE message_id <> '';
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given
// database connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing
// queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// fact_interaction table and indexes if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// InsertProvisional inserts a new unconfirmed record and returns its
// interaction id. Redelivered message ids hit the partial unique index and
// insert nothing; that surfaces as [ErrDuplicateMessage].
func (s *PostgresStore) InsertProvisional(ctx context.Context, rec *models.InteractionRecord) (int64, error) {
	codes, err := EncodeObjectionCodes(rec.Fields.ObjectionCodes)
	if err != nil {
		return 0, err
	}

	const query = `
		INSERT INTO fact_interaction (
			customer_id, message_id, visit_date, salesperson_id,
			desired_model, intent_window_days, test_drive_flag,
			test_drive_score, stock_flag, financing_flag,
			objection_codes, outcome, competitor_brand, confirmed
		) VALUES ($1,$2,CURRENT_DATE,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,false)
		ON CONFLICT (message_id) WHERE message_id <> '' DO NOTHING
		RETURNING interaction_id`

	var id int64
	err = s.db.QueryRow(ctx, query,
		rec.CustomerID, rec.MessageID, rec.Fields.SalespersonID,
		rec.Fields.DesiredModel, rec.Fields.IntentWindowDays, rec.Fields.TestDriveFlag,
		rec.Fields.TestDriveScore, rec.Fields.StockFlag, rec.Fields.FinancingFlag,
		codes, rec.Fields.Outcome, rec.Fields.CompetitorBrand,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrDuplicateMessage
		}
		return 0, fmt.Errorf("store: insert provisional: %w", err)
	}
	rec.ID = id
	return id, nil
}

// ConfirmLatest flips the most recent unconfirmed record for the customer.
// The subselect locks the candidate row, so a concurrent confirm for the
// same customer either picks a different row or updates nothing.
func (s *PostgresStore) ConfirmLatest(ctx context.Context, customerID string) (int64, error) {
	const query = `
		UPDATE fact_interaction
		SET confirmed = true
		WHERE interaction_id = (
			SELECT interaction_id
			FROM fact_interaction
			WHERE customer_id = $1 AND confirmed = false
			ORDER BY interaction_id DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)`

	tag, err := s.db.Exec(ctx, query, customerID)
	if err != nil {
		return 0, fmt.Errorf("store: confirm latest for %q: %w", customerID, err)
	}
	return tag.RowsAffected(), nil
}
