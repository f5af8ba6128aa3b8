// Package policy computes which actions apply to a card and how they map to
// UI styling. It reads registrations and card snapshots; it never mutates.
package policy

import "github.com/decisiondeck/core/internal/domain/cards"

// Single place to change the action → button mapping.
var buttonStyles = map[cards.ActionType]cards.ButtonStyle{
	cards.ActionApprove:    cards.ButtonPrimary,
	cards.ActionReject:     cards.ButtonDestructive,
	cards.ActionDefer:      cards.ButtonSecondary,
	cards.ActionArchive:    cards.ButtonSecondary,
	cards.ActionSchedule:   cards.ButtonSecondary,
	cards.ActionRead:       cards.ButtonSecondary,
	cards.ActionMarkUrgent: cards.ButtonPrimary,
	cards.ActionMarkDone:   cards.ButtonSecondary,
	cards.ActionIgnore:     cards.ButtonDestructive,
	cards.ActionCustom:     cards.ButtonSecondary,
}

// ButtonStyleFor maps an action's semantic type to its button style.
// Unmapped types fall back to secondary.
func ButtonStyleFor(t cards.ActionType) cards.ButtonStyle {
	if style, ok := buttonStyles[t]; ok {
		return style
	}
	return cards.ButtonSecondary
}

// AvailableActions resolves the ordered action list for a card: all
// backend-declared actions first, in their given order, then the statically
// configured ones whose ID is not already taken. Re-declaring an ID lets a
// backend override or suppress a static action while unconfigured types keep
// sane defaults.
func AvailableActions(registry *cards.Registry, card *cards.Card) []cards.Action {
	var static []cards.Action
	if bp, ok := registry.Blueprint(card.Type); ok && bp.Actions != nil {
		static = bp.Actions(card)
	}

	backend := card.Actions
	if len(backend) == 0 {
		return static
	}
	if len(static) == 0 {
		return backend
	}

	seen := make(map[string]struct{}, len(backend))
	for _, a := range backend {
		seen[a.ID] = struct{}{}
	}

	merged := make([]cards.Action, 0, len(backend)+len(static))
	merged = append(merged, backend...)
	for _, a := range static {
		if _, taken := seen[a.ID]; !taken {
			merged = append(merged, a)
		}
	}
	return merged
}

// Styled resolves the button style for each action.
func Styled(actions []cards.Action) []cards.StyledAction {
	out := make([]cards.StyledAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, cards.StyledAction{Action: a, Style: ButtonStyleFor(a.Type)})
	}
	return out
}

// QuickActions returns the four universal triage gestures. They are
// card-independent and always offered, whatever the card type.
func QuickActions() []cards.Action {
	return []cards.Action{
		{ID: "quick-defer", Type: cards.ActionDefer, Label: "PLUS TARD"},
		{ID: "quick-urgent", Type: cards.ActionMarkUrgent, Label: "URGENT"},
		{ID: "quick-done", Type: cards.ActionMarkDone, Label: "FAIT"},
		{ID: "quick-ignore", Type: cards.ActionIgnore, Label: "IGNORER"},
	}
}
