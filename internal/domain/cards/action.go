package cards

// ActionType is the closed enumeration of action semantics. Unlike card
// types it is not extensible at runtime: every action maps to one of these
// and through them to a fixed set of button styles.
type ActionType string

const (
	ActionApprove    ActionType = "approve"
	ActionReject     ActionType = "reject"
	ActionDefer      ActionType = "defer"
	ActionArchive    ActionType = "archive"
	ActionSchedule   ActionType = "schedule"
	ActionRead       ActionType = "read"
	ActionMarkUrgent ActionType = "mark-urgent"
	ActionMarkDone   ActionType = "mark-done"
	ActionIgnore     ActionType = "ignore"
	ActionCustom     ActionType = "custom"
)

func (at ActionType) IsValid() bool {
	switch at {
	case ActionApprove, ActionReject, ActionDefer, ActionArchive, ActionSchedule,
		ActionRead, ActionMarkUrgent, ActionMarkDone, ActionIgnore, ActionCustom:
		return true
	default:
		return false
	}
}

// Action is a user-facing affordance offered on a card. IDs are unique
// within the action set of one card, not globally.
type Action struct {
	ID                   string     `json:"id"`
	Type                 ActionType `json:"type"`
	Label                string     `json:"label"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
	Icon                 string     `json:"icon,omitempty"`
}
