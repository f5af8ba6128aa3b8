package repository

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/decisiondeck/core/internal/domain/cards"
)

//go:embed fixtures/cards.json
var fixtureFS embed.FS

// FixtureCardRepository serves the embedded development dataset. No network,
// no state: every List decodes the same fixture through the factory's wire
// path, exactly as external data would arrive.
type FixtureCardRepository struct {
	factory *cards.Factory
}

func NewFixtureCardRepository(factory *cards.Factory) *FixtureCardRepository {
	return &FixtureCardRepository{factory: factory}
}

func (r *FixtureCardRepository) List(ctx context.Context) ([]*cards.Card, error) {
	raw, err := fixtureFS.ReadFile("fixtures/cards.json")
	if err != nil {
		return nil, fmt.Errorf("read card fixtures: %w", err)
	}

	var wire []cards.WireCard
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode card fixtures: %w", err)
	}

	return r.factory.FromWireBatch(wire)
}
