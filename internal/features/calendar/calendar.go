// Package calendar registers the "calendar" card type: invites and events
// sourced from the user's calendar connectors.
package calendar

import (
	"fmt"
	"time"

	"github.com/decisiondeck/core/internal/domain/cards"
)

// Sender identifies the person behind an invite.
type Sender struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Initials string `json:"initials"`
	Avatar   string `json:"avatar,omitempty"`
}

// Source names the channel the card came in through.
type Source struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Payload is the calendar card payload.
type Payload struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location,omitempty"`
	Attendees   []string   `json:"attendees,omitempty"`
	EventStatus string     `json:"eventStatus,omitempty"`
	Sender      *Sender    `json:"sender,omitempty"`
	Source      *Source    `json:"source,omitempty"`
}

func (Payload) PayloadType() cards.TypeID { return cards.TypeCalendar }

// Blueprint returns the calendar type registration record.
func Blueprint() cards.Blueprint {
	return cards.Blueprint{
		Type:       cards.TypeCalendar,
		Connectors: []string{"google_calendar", "gmail"},

		Defaults: func(seed int64) cards.Defaults {
			return cards.Defaults{
				Title:    "Nouvel événement",
				Priority: cards.PriorityNormal,
			}
		},

		PayloadFactory: func(seed int64) cards.Payload {
			start := time.UnixMilli(seed).UTC()
			end := start.Add(time.Hour)
			return Payload{
				Title:     "Réunion (mock)",
				StartDate: start,
				EndDate:   &end,
				Source:    &Source{Type: "calendar", Label: "Agenda"},
			}
		},

		Actions: func(card *cards.Card) []cards.Action {
			return []cards.Action{
				{ID: "accept", Type: cards.ActionApprove, Label: "Accepter", Icon: "Check"},
				{ID: "schedule", Type: cards.ActionSchedule, Label: "Proposer un Créneau", Icon: "Calendar"},
				{ID: "reject", Type: cards.ActionReject, Label: "Refuser", Icon: "X"},
			}
		},

		DecodePayload: decodePayload,
	}
}

func decodePayload(raw map[string]any) (cards.Payload, error) {
	p := Payload{
		Title:       cards.StringField(raw, "title"),
		Description: cards.StringField(raw, "description"),
		Location:    cards.StringField(raw, "location"),
		Attendees:   cards.StringSliceField(raw, "attendees"),
		EventStatus: cards.StringField(raw, "eventStatus"),
	}
	if start, ok := cards.TimeField(raw, "startDate"); ok {
		p.StartDate = start
	}
	if end, ok := cards.TimeField(raw, "endDate"); ok {
		p.EndDate = &end
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

// Renderer paints a calendar card: when, where, who.
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

		if !p.StartDate.IsZero() {
			line := p.StartDate.Format("Mon 02 Jan 15:04")
			if p.EndDate != nil {
				line += " – " + p.EndDate.Format("15:04")
			}
			view.Lines = append(view.Lines, line)
		}
		if p.Location != "" {
			view.Lines = append(view.Lines, p.Location)
		}
		if len(p.Attendees) > 0 {
			view.Lines = append(view.Lines, fmt.Sprintf("%d participant(s)", len(p.Attendees)))
		}
		if p.Description != "" {
			view.Lines = append(view.Lines, p.Description)
		}
		if p.Sender != nil {
			view.Meta["sender"] = p.Sender.Name
		}
		if p.Source != nil {
			view.Meta["source"] = p.Source.Label
		}
		if p.EventStatus != "" {
			view.Meta["eventStatus"] = p.EventStatus
		}
		return view
	})
}

// Register wires the calendar blueprint and renderer into the registry.
func Register(registry *cards.Registry) error {
	if err := registry.Register(Blueprint()); err != nil {
		return err
	}
	return registry.RegisterRenderer(cards.TypeCalendar, Renderer())
}
