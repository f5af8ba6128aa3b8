package ports

import "github.com/decisiondeck/core/internal/domain/cards"

// Request/Response types for the HTTP surface.

// UpdateCardRequest is a partial card update. Nil fields are left untouched.
type UpdateCardRequest struct {
	Title      *string         `json:"title" validate:"omitempty,max=500"`
	Status     *cards.Status   `json:"status" validate:"omitempty,oneof=pending done skipped"`
	Priority   *cards.Priority `json:"priority" validate:"omitempty,oneof=low normal high"`
	Connectors []string        `json:"connectors" validate:"omitempty,dive,max=100"`
}

// ExecuteActionRequest carries the optional body of an action invocation.
// Confirmed acknowledges an action's RequiresConfirmation gate; Data carries
// side-channel input collected by the client (e.g. a chosen time slot).
type ExecuteActionRequest struct {
	Confirmed bool           `json:"confirmed"`
	Data      map[string]any `json:"data"`
}

// StatsResponse reports the store's derived counters.
type StatsResponse struct {
	Total          int    `json:"total"`
	Done           int    `json:"done"`
	Pending        int    `json:"pending"`
	Progress       int    `json:"progress"`
	SelectedCardID string `json:"selectedCardId,omitempty"`
	Initialized    bool   `json:"initialized"`
	Loading        bool   `json:"loading"`
	Error          string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
