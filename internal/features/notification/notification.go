// Package notification registers the "notification" card type: messages
// surfaced from chat and mail connectors.
package notification

import (
	"fmt"
	"time"

	"github.com/decisiondeck/core/internal/domain/cards"
)

type Sender struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Initials string `json:"initials"`
	Avatar   string `json:"avatar,omitempty"`
}

type Source struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Payload is the notification card payload.
type Payload struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon,omitempty"`
	Severity  string    `json:"severity,omitempty"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	Sender    *Sender   `json:"sender,omitempty"`
	Source    *Source   `json:"source,omitempty"`
}

func (Payload) PayloadType() cards.TypeID { return cards.TypeNotification }

// Blueprint returns the notification type registration record.
func Blueprint() cards.Blueprint {
	return cards.Blueprint{
		Type:       cards.TypeNotification,
		Connectors: []string{"slack", "gmail"},

		Defaults: func(seed int64) cards.Defaults {
			return cards.Defaults{
				Title:    "Nouvelle notification",
				Priority: cards.PriorityLow,
			}
		},

		PayloadFactory: func(seed int64) cards.Payload {
			return Payload{
				Title:     "Nouvelle notification",
				Message:   fmt.Sprintf("Ping #%d", seed%1000),
				Severity:  "info",
				Timestamp: time.UnixMilli(seed).UTC(),
				Source:    &Source{Type: "direct", Label: "Slack (mock)"},
			}
		},

		Actions: func(card *cards.Card) []cards.Action {
			return []cards.Action{
				{ID: "mark-read", Type: cards.ActionArchive, Label: "Marquer comme lu"},
				{ID: "dismiss", Type: cards.ActionArchive, Label: "Ignorer"},
			}
		},

		DecodePayload: decodePayload,
	}
}

func decodePayload(raw map[string]any) (cards.Payload, error) {
	p := Payload{
		Title:    cards.StringField(raw, "title"),
		Message:  cards.StringField(raw, "message"),
		Icon:     cards.StringField(raw, "icon"),
		Severity: cards.StringField(raw, "severity"),
		Read:     cards.BoolField(raw, "read"),
	}
	if ts, ok := cards.TimeField(raw, "timestamp"); ok {
		p.Timestamp = ts
	}
	if sender := cards.MapField(raw, "sender"); sender != nil {
		p.Sender = &Sender{
			Name:     cards.StringField(sender, "name"),
			Role:     cards.StringField(sender, "role"),
			Initials: cards.StringField(sender, "initials"),
			Avatar:   cards.StringField(sender, "avatar"),
		}
	}
	if source := cards.MapField(raw, "source"); source != nil {
		p.Source = &Source{
			Type:  cards.StringField(source, "type"),
			Label: cards.StringField(source, "label"),
		}
	}
	return p, nil
}

// Renderer paints a notification card: message, severity, provenance.
func Renderer() cards.Renderer {
	return cards.RendererFunc(func(card *cards.Card, actions []cards.StyledAction) cards.RenderedCard {
		view := cards.RenderedCard{
			CardID:  card.ID,
			Type:    card.Type,
			Title:   card.Title,
			Actions: actions,
			Meta:    map[string]string{},
		}

		p, ok := card.Payload.(Payload)
		if !ok {
			return cards.GenericRenderer().Render(card, actions)
		}

		if p.Message != "" {
			view.Lines = append(view.Lines, p.Message)
		}
		if !p.Timestamp.IsZero() {
			view.Lines = append(view.Lines, p.Timestamp.Format("02 Jan 15:04"))
		}
		if p.Severity != "" {
			view.Meta["severity"] = p.Severity
		}
		if p.Read {
			view.Meta["read"] = "true"
		}
		if p.Sender != nil {
			view.Meta["sender"] = p.Sender.Name
		}
		if p.Source != nil {
			view.Meta["source"] = p.Source.Label
		}
		return view
	})
}

// Register wires the notification blueprint and renderer into the registry.
func Register(registry *cards.Registry) error {
	if err := registry.Register(Blueprint()); err != nil {
		return err
	}
	return registry.RegisterRenderer(cards.TypeNotification, Renderer())
}
