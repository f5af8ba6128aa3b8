package ports

import (
	"context"

	"github.com/decisiondeck/core/internal/domain/cards"
)

// CardRepository abstracts where the card collection is sourced from.
// Implementations must be substitutable: no caller may depend on which one
// is active. Selection between them is configuration, not contract.
type CardRepository interface {
	List(ctx context.Context) ([]*cards.Card, error)
}

// CardWriter is implemented by repositories that can persist mutations.
// The in-memory store works against read-only sources too, so writes are an
// optional capability checked at wiring time.
type CardWriter interface {
	Save(ctx context.Context, card *cards.Card) error
	SetStatus(ctx context.Context, id string, status cards.Status) error
	Delete(ctx context.Context, id string) error
}
