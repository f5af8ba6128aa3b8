package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/decisiondeck/core/internal/domain/cards"
)

func TestRegister(t *testing.T) {
	reg := cards.NewRegistry()
	require.NoError(t, Register(reg))

	bp, ok := reg.Blueprint(cards.TypeCalendar)
	require.True(t, ok)
	require.Equal(t, []string{"google_calendar", "gmail"}, bp.Connectors)

	// Register-once semantics hold for the feature as a whole.
	require.Error(t, Register(reg))
}

func TestBlueprintDefaults(t *testing.T) {
	bp := Blueprint()

	d := bp.Defaults(1)
	require.Equal(t, "Nouvel événement", d.Title)
	require.Equal(t, cards.PriorityNormal, d.Priority)
}

func TestPayloadFactoryIsDeterministic(t *testing.T) {
	bp := Blueprint()

	a := bp.PayloadFactory(1234).(Payload)
	b := bp.PayloadFactory(1234).(Payload)
	require.Equal(t, a, b)

	require.Equal(t, time.UnixMilli(1234).UTC(), a.StartDate)
	require.NotNil(t, a.EndDate)
	require.Equal(t, a.StartDate.Add(time.Hour), *a.EndDate)
}

func TestStaticActions(t *testing.T) {
	bp := Blueprint()

	actions := bp.Actions(&cards.Card{Type: cards.TypeCalendar})
	require.Len(t, actions, 3)
	require.Equal(t, cards.ActionApprove, actions[0].Type)
	require.Equal(t, cards.ActionSchedule, actions[1].Type)
	require.Equal(t, cards.ActionReject, actions[2].Type)
}

func TestDecodePayload(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	raw := map[string]any{
		"title":     "Réunion",
		"startDate": start,
		"location":  "Salle B",
		"attendees": []any{"a@example.com", "b@example.com"},
		"sender":    map[string]any{"name": "Marie", "initials": "MD"},
		"source":    map[string]any{"type": "calendar", "label": "Agenda"},
	}

	decoded, err := decodePayload(raw)
	require.NoError(t, err)

	p, ok := decoded.(Payload)
	require.True(t, ok)
	require.Equal(t, "Réunion", p.Title)
	require.Equal(t, start, p.StartDate)
	require.Nil(t, p.EndDate)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, p.Attendees)
	require.Equal(t, "Marie", p.Sender.Name)
	require.Equal(t, "Agenda", p.Source.Label)
	require.Equal(t, cards.TypeCalendar, p.PayloadType())
}

func TestRendererLines(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	card := &cards.Card{
		ID:    "cal-1",
		Type:  cards.TypeCalendar,
		Title: "Réunion",
		Payload: Payload{
			Title:     "Réunion",
			StartDate: start,
			EndDate:   &end,
			Location:  "Salle B",
			Attendees: []string{"a@example.com"},
		},
	}

	view := Renderer().Render(card, nil)
	require.Equal(t, "cal-1", view.CardID)
	require.Equal(t, "Réunion", view.Title)
	require.Contains(t, view.Lines, "Salle B")
	require.Contains(t, view.Lines, "1 participant(s)")
}

func TestRendererFallsBackOnForeignPayload(t *testing.T) {
	card := &cards.Card{ID: "x", Type: cards.TypeCalendar, Title: "Odd", Payload: cards.OpaquePayload{}}

	view := Renderer().Render(card, nil)
	require.Equal(t, "Odd", view.Title)
}
