package services

import (
	"fmt"

	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/domain/policy"
	"github.com/decisiondeck/core/internal/infrastructure/logger"
)

// ActionService resolves and dispatches triage actions against the store.
// Resolution consults the merged action set for the card plus the global
// quick actions, so both backend-supplied and blueprint actions are
// executable through the same path.
type ActionService struct {
	store    *CardStore
	registry *cards.Registry
	logger   *logger.Logger
}

func NewActionService(store *CardStore, registry *cards.Registry, log *logger.Logger) *ActionService {
	return &ActionService{
		store:    store,
		registry: registry,
		logger:   log.WithComponent("action_service"),
	}
}

// ActionsFor returns the merged action set for a card: backend actions
// first, then blueprint actions whose ids are not shadowed.
func (s *ActionService) ActionsFor(card *cards.Card) []cards.Action {
	return policy.AvailableActions(s.registry, card)
}

// Execute runs the action with the given id on the card. The action is
// looked up in the card's merged set, then among the quick actions. Actions
// flagged RequiresConfirmation are rejected with ErrConfirmationRequired
// unless the request carries Confirmed.
func (s *ActionService) Execute(cardID, actionID string, confirmed bool, data map[string]any) error {
	card := s.store.Card(cardID)
	if card == nil {
		return fmt.Errorf("%w: %s", cards.ErrCardNotFound, cardID)
	}

	action, ok := s.resolve(card, actionID)
	if !ok {
		return fmt.Errorf("%w: %s on card %s", cards.ErrActionNotFound, actionID, cardID)
	}

	if action.RequiresConfirmation && !confirmed {
		return fmt.Errorf("%w: %s", cards.ErrConfirmationRequired, actionID)
	}

	s.dispatch(cardID, action)

	meta := map[string]interface{}{"action_type": string(action.Type)}
	for k, v := range data {
		meta[k] = v
	}
	s.logger.LogCardAction(cardID, actionID, meta)
	return nil
}

func (s *ActionService) resolve(card *cards.Card, actionID string) (cards.Action, bool) {
	for _, a := range s.ActionsFor(card) {
		if a.ID == actionID {
			return a, true
		}
	}
	for _, a := range policy.QuickActions() {
		if a.ID == actionID {
			return a, true
		}
	}
	return cards.Action{}, false
}

// dispatch maps the action type to a store mutation. Every completing type
// goes through MarkCardDone so the selection advances uniformly; deferring
// types skip without touching the selection.
func (s *ActionService) dispatch(cardID string, action cards.Action) {
	switch action.Type {
	case cards.ActionDefer, cards.ActionIgnore:
		s.store.SkipCard(cardID)
	case cards.ActionMarkUrgent:
		high := cards.PriorityHigh
		s.store.UpdateCard(cardID, CardPatch{Priority: &high})
	default:
		// approve, reject, archive, schedule, read, mark-done, custom
		s.store.MarkCardDone(cardID)
	}
}
