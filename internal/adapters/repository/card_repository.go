package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/infrastructure/database"
)

// PostgresCardRepository persists cards in the cards table. Payloads and
// action sets are stored as JSONB and round-tripped through the factory's
// wire path, so a card read from the database is normalized exactly like one
// fetched over HTTP.
type PostgresCardRepository struct {
	db      *database.DB
	factory *cards.Factory
}

func NewPostgresCardRepository(db *database.DB, factory *cards.Factory) *PostgresCardRepository {
	return &PostgresCardRepository{db: db, factory: factory}
}

type cardRow struct {
	ID         string         `db:"id"`
	Type       string         `db:"type"`
	Title      string         `db:"title"`
	Payload    types.JSONText `db:"payload"`
	Status     string         `db:"status"`
	Priority   sql.NullString `db:"priority"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
	Connectors pq.StringArray `db:"connectors"`
	Actions    types.JSONText `db:"actions"`
}

func (r *PostgresCardRepository) List(ctx context.Context) ([]*cards.Card, error) {
	query := `
		SELECT id, type, title, payload, status, priority,
		       created_at, updated_at, connectors, actions
		FROM cards
		ORDER BY created_at, id`

	var rows []cardRow
	if err := r.db.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	wire := make([]cards.WireCard, 0, len(rows))
	for _, row := range rows {
		w, err := row.toWire()
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return r.factory.FromWireBatch(wire)
}

func (row cardRow) toWire() (cards.WireCard, error) {
	w := cards.WireCard{
		ID:         row.ID,
		Type:       cards.TypeID(row.Type),
		Title:      row.Title,
		Payload:    json.RawMessage(row.Payload),
		Status:     cards.Status(row.Status),
		CreatedAt:  row.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  row.UpdatedAt.Format(time.RFC3339Nano),
		Connectors: row.Connectors,
	}
	if row.Priority.Valid {
		w.Priority = cards.Priority(row.Priority.String)
	}
	if len(row.Actions) > 0 && string(row.Actions) != "null" {
		if err := json.Unmarshal(row.Actions, &w.Actions); err != nil {
			return cards.WireCard{}, fmt.Errorf("decode actions for card %q: %w", row.ID, err)
		}
	}
	return w, nil
}

// Save upserts a card. Used by the seed command and by write-through from
// the store boundary.
func (r *PostgresCardRepository) Save(ctx context.Context, card *cards.Card) error {
	payload, err := json.Marshal(card.Payload)
	if err != nil {
		return fmt.Errorf("encode payload for card %q: %w", card.ID, err)
	}
	actions, err := json.Marshal(card.Actions)
	if err != nil {
		return fmt.Errorf("encode actions for card %q: %w", card.ID, err)
	}

	query := `
		INSERT INTO cards (id, type, title, payload, status, priority,
		                   created_at, updated_at, connectors, actions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			payload = EXCLUDED.payload,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			updated_at = EXCLUDED.updated_at,
			connectors = EXCLUDED.connectors,
			actions = EXCLUDED.actions`

	_, err = r.db.DB.ExecContext(ctx, query,
		card.ID,
		string(card.Type),
		card.Title,
		types.JSONText(payload),
		string(card.Status),
		nullString(string(card.Priority)),
		card.CreatedAt,
		card.UpdatedAt,
		pq.StringArray(card.Connectors),
		types.JSONText(actions),
	)
	if err != nil {
		return fmt.Errorf("save card %q: %w", card.ID, err)
	}
	return nil
}

// SetStatus updates a card's status and refreshes updated_at.
func (r *PostgresCardRepository) SetStatus(ctx context.Context, id string, status cards.Status) error {
	query := `UPDATE cards SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.DB.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("set status for card %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set status for card %q: %w", id, cards.ErrCardNotFound)
	}
	return nil
}

// Delete removes a card.
func (r *PostgresCardRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete card %q: %w", id, cards.ErrCardNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
