package cards

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseISO(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2026-03-15T10:30:00Z", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2026-03-15T10:30:00.500Z", time.Date(2026, 3, 15, 10, 30, 0, 500000000, time.UTC), true},
		{"2026-03-15T10:30:00+02:00", time.Date(2026, 3, 15, 10, 30, 0, 0, time.FixedZone("", 2*3600)), true},
		{"2026-03-15T10:30:00", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"12345", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"2026-13-45", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tc := range cases {
		got, ok := ParseISO(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			require.True(t, tc.want.Equal(got), "input %q: got %v", tc.in, got)
		}
	}
}

func TestNormalizeDatesRecursesAndPreservesStructure(t *testing.T) {
	raw := map[string]any{
		"title":     "Réunion",
		"startDate": "2026-03-15T10:30:00Z",
		"count":     float64(3),
		"code":      "12345",
		"nested": map[string]any{
			"deadline": "2026-04-01",
		},
		"slots": []any{"2026-03-16T09:00:00Z", "free text"},
	}

	out, ok := NormalizeDates(raw).(map[string]any)
	require.True(t, ok)

	require.Equal(t, "Réunion", out["title"])
	require.Equal(t, float64(3), out["count"])
	require.Equal(t, "12345", out["code"], "numeric strings must stay strings")

	start, ok := out["startDate"].(time.Time)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), start.UTC())

	nested := out["nested"].(map[string]any)
	_, ok = nested["deadline"].(time.Time)
	require.True(t, ok)

	slots := out["slots"].([]any)
	_, ok = slots[0].(time.Time)
	require.True(t, ok)
	require.Equal(t, "free text", slots[1])
}

func TestNormalizeDatesIsIdempotent(t *testing.T) {
	raw := map[string]any{"startDate": "2026-03-15T10:30:00Z"}

	once := NormalizeDates(raw)
	twice := NormalizeDates(once)

	require.Equal(t, once, twice)
}

func wireFixture() WireCard {
	return WireCard{
		ID:        "inv-1",
		Type:      "invoice",
		Payload:   json.RawMessage(`{"title":"March invoice","dueDate":"2026-04-01"}`),
		Status:    StatusPending,
		CreatedAt: "2026-03-15T10:30:00Z",
		UpdatedAt: "2026-03-15T11:00:00Z",
	}
}

func TestFromWireDecodesAndNormalizes(t *testing.T) {
	f := newTestFactory(t, "invoice")

	card, err := f.FromWire(wireFixture())
	require.NoError(t, err)

	require.Equal(t, "inv-1", card.ID)
	require.Equal(t, "March invoice", card.Title, "title falls back to payload title")
	require.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), card.CreatedAt.UTC())

	payload, ok := card.Payload.(OpaquePayload)
	require.True(t, ok)
	due, ok := payload["dueDate"].(time.Time)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), due.UTC())
}

func TestFromWireTitleFallsBackToCard(t *testing.T) {
	f := newTestFactory(t, "invoice")

	w := wireFixture()
	w.Payload = json.RawMessage(`{}`)
	card, err := f.FromWire(w)
	require.NoError(t, err)
	require.Equal(t, "Card", card.Title)
}

func TestFromWireUsesBlueprintDecoder(t *testing.T) {
	reg := NewRegistry()
	bp := testBlueprint("invoice")
	bp.DecodePayload = func(raw map[string]any) (Payload, error) {
		return OpaquePayload{"decoded": StringField(raw, "title")}, nil
	}
	reg.MustRegister(bp)
	f := NewFactory(reg)

	card, err := f.FromWire(wireFixture())
	require.NoError(t, err)
	require.Equal(t, OpaquePayload{"decoded": "March invoice"}, card.Payload)
}

func TestFromWireRejectsMalformedTimestamp(t *testing.T) {
	f := newTestFactory(t, "invoice")

	w := wireFixture()
	w.CreatedAt = "yesterday"
	_, err := f.FromWire(w)
	require.Error(t, err)
	require.Contains(t, err.Error(), "createdAt")
}

func TestFromWireRejectsMalformedPayload(t *testing.T) {
	f := newTestFactory(t, "invoice")

	w := wireFixture()
	w.Payload = json.RawMessage(`{broken`)
	_, err := f.FromWire(w)
	require.Error(t, err)
}

func TestFromWireBatchFailsOnOneBadRecord(t *testing.T) {
	f := newTestFactory(t, "invoice")

	good := wireFixture()
	bad := wireFixture()
	bad.ID = "inv-2"
	bad.Type = "ghost"

	_, err := f.FromWireBatch([]WireCard{good, bad})
	require.ErrorIs(t, err, ErrTypeNotRegistered)

	batch, err := f.FromWireBatch([]WireCard{good})
	require.NoError(t, err)
	require.Len(t, batch, 1)
}
