package cards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T, types ...TypeID) *Factory {
	t.Helper()
	reg := NewRegistry()
	for _, typ := range types {
		reg.MustRegister(testBlueprint(typ))
	}
	return NewFactory(reg)
}

func TestFactoryCreateUsesBlueprintDefaults(t *testing.T) {
	f := newTestFactory(t, "invoice")

	card, err := f.Create("invoice", nil, 42)
	require.NoError(t, err)

	require.Equal(t, TypeID("invoice"), card.Type)
	require.Equal(t, "Test card", card.Title)
	require.Equal(t, PriorityNormal, card.Priority)
	require.Equal(t, StatusPending, card.Status)
	require.Equal(t, OpaquePayload{"seed": int64(42)}, card.Payload)
	require.False(t, card.CreatedAt.IsZero())
	require.Equal(t, card.CreatedAt, card.UpdatedAt)
}

func TestFactoryCreateUnregisteredType(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Create("ghost", nil, 1)
	require.ErrorIs(t, err, ErrTypeNotRegistered)
}

func TestFactoryCreateOverrides(t *testing.T) {
	f := newTestFactory(t, "invoice")
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	card, err := f.Create("invoice", &Overrides{
		ID:        "fixed-id",
		Title:     "Custom title",
		Priority:  PriorityHigh,
		Status:    StatusDone,
		Payload:   OpaquePayload{"custom": true},
		CreatedAt: created,
	}, 7)
	require.NoError(t, err)

	require.Equal(t, "fixed-id", card.ID)
	require.Equal(t, "Custom title", card.Title)
	require.Equal(t, PriorityHigh, card.Priority)
	require.Equal(t, StatusDone, card.Status)
	require.Equal(t, OpaquePayload{"custom": true}, card.Payload)
	require.Equal(t, created, card.CreatedAt)
	require.Equal(t, created, card.UpdatedAt)
}

func TestFactoryIDsAreUnique(t *testing.T) {
	f := newTestFactory(t, "invoice")

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		// Same seed on purpose: the random suffix alone must disambiguate.
		card, err := f.Create("invoice", nil, 1)
		require.NoError(t, err)
		_, dup := seen[card.ID]
		require.False(t, dup, "duplicate id %s", card.ID)
		seen[card.ID] = struct{}{}
	}
}

func TestFactoryPayloadIsSeedDeterministic(t *testing.T) {
	f := newTestFactory(t, "invoice")

	a, err := f.Create("invoice", nil, 99)
	require.NoError(t, err)
	b, err := f.Create("invoice", nil, 99)
	require.NoError(t, err)

	require.Equal(t, a.Payload, b.Payload)
	require.Equal(t, a.Title, b.Title)
	require.NotEqual(t, a.ID, b.ID)
}

func TestFactoryCreateManyVariesSeeds(t *testing.T) {
	f := newTestFactory(t, "invoice")

	batch, err := f.CreateMany("invoice", 5, 100)
	require.NoError(t, err)
	require.Len(t, batch, 5)

	for i, card := range batch {
		require.Equal(t, OpaquePayload{"seed": int64(100 + i)}, card.Payload)
	}
}

func TestFactoryCreateMixedRoundRobins(t *testing.T) {
	f := newTestFactory(t, "invoice", "expense")

	batch, err := f.CreateMixed([]TypeID{"invoice", "expense"}, 5, 1)
	require.NoError(t, err)
	require.Len(t, batch, 5)

	expected := []TypeID{"invoice", "expense", "invoice", "expense", "invoice"}
	for i, card := range batch {
		require.Equal(t, expected[i], card.Type)
	}
}

func TestFactoryCreateMixedNoTypes(t *testing.T) {
	f := newTestFactory(t)
	_, err := f.CreateMixed(nil, 3, 1)
	require.Error(t, err)
}

func TestFactoryCreateFromDataFallbacks(t *testing.T) {
	reg := NewRegistry()
	bp := testBlueprint("invoice")
	bp.Connectors = []string{"erp"}
	reg.MustRegister(bp)
	f := NewFactory(reg)

	created := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	card, err := f.CreateFromData("invoice", CardData{
		ID:        "inv-1",
		Title:     "March invoice",
		Payload:   OpaquePayload{"amount": 120.0},
		CreatedAt: created,
	})
	require.NoError(t, err)

	require.Equal(t, StatusPending, card.Status)
	require.Equal(t, created, card.UpdatedAt)
	require.Equal(t, []string{"erp"}, card.Connectors)
}

func TestFactoryCreateFromDataKeepsGivenValues(t *testing.T) {
	reg := NewRegistry()
	bp := testBlueprint("invoice")
	bp.Connectors = []string{"erp"}
	reg.MustRegister(bp)
	f := NewFactory(reg)

	updated := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	card, err := f.CreateFromData("invoice", CardData{
		ID:         "inv-2",
		Status:     StatusDone,
		UpdatedAt:  updated,
		Connectors: []string{"bank"},
	})
	require.NoError(t, err)

	require.Equal(t, StatusDone, card.Status)
	require.Equal(t, updated, card.UpdatedAt)
	require.Equal(t, []string{"bank"}, card.Connectors)
}

func TestFactoryCreateFromDataUnregisteredType(t *testing.T) {
	f := newTestFactory(t)
	_, err := f.CreateFromData("ghost", CardData{ID: "g-1"})
	require.ErrorIs(t, err, ErrTypeNotRegistered)
}

func TestMakeIDShape(t *testing.T) {
	id := makeID("invoice", 7)
	require.Regexp(t, `^invoice_7_[0-9a-f]{12}$`, id)
}
