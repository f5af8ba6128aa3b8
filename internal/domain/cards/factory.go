package cards

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Factory is the only component that constructs Card values. It serves two
// paths: Create builds mock cards from a registered blueprint, CreateFromData
// builds cards from externally supplied data. Both fail loudly when the type
// has no registered blueprint; an unregistered type is a configuration error
// that must surface during development, never a silent fallback card.
type Factory struct {
	registry *Registry
}

func NewFactory(registry *Registry) *Factory {
	return &Factory{registry: registry}
}

func (f *Factory) Registry() *Registry {
	return f.registry
}

// Overrides carries optional values that take precedence over the factory's
// computed defaults. Zero values mean "not set".
type Overrides struct {
	ID         string
	Title      string
	Priority   Priority
	Status     Status
	Payload    Payload
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Connectors []string
	Actions    []Action
}

// Create builds a mock card for the given type and seed. Title and priority
// come from the blueprint's Defaults, the payload from its PayloadFactory,
// unless overridden.
func (f *Factory) Create(t TypeID, ov *Overrides, seed int64) (*Card, error) {
	bp, ok := f.registry.Blueprint(t)
	if !ok {
		return nil, fmt.Errorf("create card %q: %w", t, ErrTypeNotRegistered)
	}

	if ov == nil {
		ov = &Overrides{}
	}

	base := bp.Defaults(seed)

	payload := ov.Payload
	if payload == nil {
		payload = bp.PayloadFactory(seed)
	}

	createdAt := ov.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := ov.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	card := &Card{
		ID:         ov.ID,
		Type:       t,
		Title:      base.Title,
		Priority:   base.Priority,
		Status:     StatusPending,
		Payload:    payload,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Connectors: bp.Connectors,
		Actions:    ov.Actions,
	}

	if card.ID == "" {
		card.ID = makeID(t, seed)
	}
	if ov.Title != "" {
		card.Title = ov.Title
	}
	if ov.Priority != "" {
		card.Priority = ov.Priority
	}
	if ov.Status != "" {
		card.Status = ov.Status
	}
	if ov.Connectors != nil {
		card.Connectors = ov.Connectors
	}

	return card, nil
}

// CreateMany builds count mock cards with strictly increasing seeds, so the
// content varies per card while staying deterministic for a fixed base seed.
func (f *Factory) CreateMany(t TypeID, count int, seed int64) ([]*Card, error) {
	out := make([]*Card, 0, count)
	for i := 0; i < count; i++ {
		card, err := f.Create(t, nil, seed+int64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// CreateMixed builds count mock cards round-robining over the given types.
func (f *Factory) CreateMixed(types []TypeID, count int, seed int64) ([]*Card, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("create mixed cards: no types given")
	}
	out := make([]*Card, 0, count)
	for i := 0; i < count; i++ {
		card, err := f.Create(types[i%len(types)], nil, seed+int64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// CardData is the production-path input: every field is taken as given from
// the data source, never from the blueprint's mock factories.
type CardData struct {
	ID         string
	Title      string
	Payload    Payload
	Status     Status
	Priority   Priority
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Connectors []string
	Actions    []Action
}

// CreateFromData builds a card from externally supplied data. Only three
// fallbacks apply: status defaults to pending, UpdatedAt to CreatedAt, and
// connectors to the blueprint's list. The blueprint is still required, both
// for the connector fallback and to assert the type is known.
func (f *Factory) CreateFromData(t TypeID, data CardData) (*Card, error) {
	bp, ok := f.registry.Blueprint(t)
	if !ok {
		return nil, fmt.Errorf("create card from data %q: %w", t, ErrTypeNotRegistered)
	}

	status := data.Status
	if status == "" {
		status = StatusPending
	}
	updatedAt := data.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = data.CreatedAt
	}
	connectors := data.Connectors
	if connectors == nil {
		connectors = bp.Connectors
	}

	return &Card{
		ID:         data.ID,
		Type:       t,
		Title:      data.Title,
		Payload:    data.Payload,
		Status:     status,
		Priority:   data.Priority,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  updatedAt,
		Connectors: connectors,
		Actions:    data.Actions,
	}, nil
}

func makeID(t TypeID, seed int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", t, seed, suffix)
}
