package cards

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrTypeAlreadyRegistered     = errors.New("card type already registered")
	ErrRendererAlreadyRegistered = errors.New("renderer already registered")
	ErrTypeNotRegistered         = errors.New("card type not registered")
	ErrCardNotFound              = errors.New("card not found")
	ErrActionNotFound            = errors.New("action not available for card")
	ErrConfirmationRequired      = errors.New("action requires confirmation")
)

// TypeID identifies a card type. The set of types is open: any identifier
// with a registered blueprint is a valid type, the constants below only name
// the built-in ones.
type TypeID string

const (
	TypeCalendar     TypeID = "calendar"
	TypeNotification TypeID = "notification"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Card is a unit of work presented to the user for triage.
type Card struct {
	ID    string `json:"id"`
	Type  TypeID `json:"type"`
	Title string `json:"title"`

	Payload Payload `json:"payload"`

	Status   Status   `json:"status"`
	Priority Priority `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Connectors lists the external integrations relevant to this card,
	// either supplied by the data source or falling back to the blueprint.
	Connectors []string `json:"connectors,omitempty"`

	// Actions are the actions declared by the data source. They take
	// precedence over the statically configured ones with the same ID.
	Actions []Action `json:"actions,omitempty"`
}

func (c *Card) IsPending() bool {
	return c.Status == StatusPending
}

// Clone returns a copy safe to hand out of the store. Slices are copied,
// payload values are treated as read-only.
func (c *Card) Clone() *Card {
	cp := *c
	if c.Connectors != nil {
		cp.Connectors = append([]string(nil), c.Connectors...)
	}
	if c.Actions != nil {
		cp.Actions = append([]Action(nil), c.Actions...)
	}
	return &cp
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone, StatusSkipped:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}
