package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/decisiondeck/core/internal/domain/cards"
)

func TestRegister(t *testing.T) {
	reg := cards.NewRegistry()
	require.NoError(t, Register(reg))

	bp, ok := reg.Blueprint(cards.TypeNotification)
	require.True(t, ok)
	require.Equal(t, []string{"slack", "gmail"}, bp.Connectors)
	require.Error(t, Register(reg))
}

func TestBlueprintDefaults(t *testing.T) {
	bp := Blueprint()

	d := bp.Defaults(1)
	require.Equal(t, "Nouvelle notification", d.Title)
	require.Equal(t, cards.PriorityLow, d.Priority)
}

func TestPayloadFactoryIsDeterministic(t *testing.T) {
	bp := Blueprint()

	a := bp.PayloadFactory(2500).(Payload)
	b := bp.PayloadFactory(2500).(Payload)
	require.Equal(t, a, b)
	require.Equal(t, "Ping #500", a.Message)
	require.Equal(t, time.UnixMilli(2500).UTC(), a.Timestamp)
}

func TestDecodePayload(t *testing.T) {
	ts := time.Date(2026, 8, 28, 9, 2, 0, 0, time.UTC)
	raw := map[string]any{
		"title":     "Mention",
		"message":   "@vous regarde ça",
		"severity":  "warning",
		"read":      true,
		"timestamp": ts,
	}

	decoded, err := decodePayload(raw)
	require.NoError(t, err)

	p, ok := decoded.(Payload)
	require.True(t, ok)
	require.Equal(t, "@vous regarde ça", p.Message)
	require.Equal(t, "warning", p.Severity)
	require.True(t, p.Read)
	require.Equal(t, ts, p.Timestamp)
	require.Equal(t, cards.TypeNotification, p.PayloadType())
}

func TestRendererLinesAndMeta(t *testing.T) {
	card := &cards.Card{
		ID:    "n-1",
		Type:  cards.TypeNotification,
		Title: "Mention",
		Payload: Payload{
			Message:  "@vous regarde ça",
			Severity: "warning",
			Sender:   &Sender{Name: "Karim"},
		},
	}

	view := Renderer().Render(card, nil)
	require.Contains(t, view.Lines, "@vous regarde ça")
	require.Equal(t, "warning", view.Meta["severity"])
	require.Equal(t, "Karim", view.Meta["sender"])
}
