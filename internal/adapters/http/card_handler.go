package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/decisiondeck/core/internal/application/services"
	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/domain/policy"
	"github.com/decisiondeck/core/internal/infrastructure/logger"
	"github.com/decisiondeck/core/internal/ports"
)

// CardHandler handles card-related requests. The writer is nil for read-only
// card sources; mutations then live only in the store.
type CardHandler struct {
	store         *services.CardStore
	actionService *services.ActionService
	registry      *cards.Registry
	writer        ports.CardWriter
	logger        *logger.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(store *services.CardStore, actionService *services.ActionService, registry *cards.Registry, writer ports.CardWriter, log *logger.Logger) *CardHandler {
	return &CardHandler{
		store:         store,
		actionService: actionService,
		registry:      registry,
		writer:        writer,
		logger:        log.WithComponent("card_handler"),
	}
}

// persistStatus writes a status change through to the backing repository.
// Best-effort: the in-memory store already committed, a persistence failure
// is logged and does not fail the request.
func (h *CardHandler) persistStatus(c echo.Context, id string, status cards.Status) {
	if h.writer == nil {
		return
	}
	if err := h.writer.SetStatus(c.Request().Context(), id, status); err != nil {
		h.logger.Warnw("Failed to persist status", "card_id", id, "status", status, "error", err)
	}
}

func (h *CardHandler) persistCard(c echo.Context, id string) {
	if h.writer == nil {
		return
	}
	card := h.store.Card(id)
	if card == nil {
		return
	}
	if err := h.writer.Save(c.Request().Context(), card); err != nil {
		h.logger.Warnw("Failed to persist card", "card_id", id, "error", err)
	}
}

// ListCards returns the whole card collection
func (h *CardHandler) ListCards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Cards())
}

// GetStats returns the store's derived counters
func (h *CardHandler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, statsFrom(h.store.Snapshot()))
}

func statsFrom(snap services.StoreSnapshot) ports.StatsResponse {
	return ports.StatsResponse{
		Total:          snap.Total,
		Done:           snap.Done,
		Pending:        snap.Pending,
		Progress:       snap.Progress,
		SelectedCardID: snap.SelectedCardID,
		Initialized:    snap.Initialized,
		Loading:        snap.Loading,
		Error:          snap.Error,
	}
}

// GetTypes lists the registered card types
func (h *CardHandler) GetTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]cards.TypeID{"types": h.registry.Types()})
}

// GetQuickActions lists the universal triage gestures with resolved styles
func (h *CardHandler) GetQuickActions(c echo.Context) error {
	return c.JSON(http.StatusOK, policy.Styled(policy.QuickActions()))
}

// GetCard returns a single card
func (h *CardHandler) GetCard(c echo.Context) error {
	card := h.store.Card(c.Param("id"))
	if card == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	return c.JSON(http.StatusOK, card)
}

// GetCardView renders a card through its type's renderer
func (h *CardHandler) GetCardView(c echo.Context) error {
	card := h.store.Card(c.Param("id"))
	if card == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	actions := policy.Styled(policy.AvailableActions(h.registry, card))
	view := h.registry.RendererFor(card.Type).Render(card, actions)
	return c.JSON(http.StatusOK, view)
}

// GetCardActions returns the merged, styled action set for a card
func (h *CardHandler) GetCardActions(c echo.Context) error {
	card := h.store.Card(c.Param("id"))
	if card == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	return c.JSON(http.StatusOK, policy.Styled(policy.AvailableActions(h.registry, card)))
}

// UpdateCard applies a partial update to a card
func (h *CardHandler) UpdateCard(c echo.Context) error {
	id := c.Param("id")
	if h.store.Card(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	var req ports.UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.store.UpdateCard(id, services.CardPatch{
		Title:      req.Title,
		Status:     req.Status,
		Priority:   req.Priority,
		Connectors: req.Connectors,
	})
	h.persistCard(c, id)
	return c.JSON(http.StatusOK, h.store.Card(id))
}

// DeleteCard removes a card from the collection
func (h *CardHandler) DeleteCard(c echo.Context) error {
	id := c.Param("id")
	if h.store.Card(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	h.store.RemoveCard(id)
	if h.writer != nil {
		if err := h.writer.Delete(c.Request().Context(), id); err != nil {
			h.logger.Warnw("Failed to delete persisted card", "card_id", id, "error", err)
		}
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Card deleted"})
}

// MarkDone marks a card done and advances the selection
func (h *CardHandler) MarkDone(c echo.Context) error {
	id := c.Param("id")
	if h.store.Card(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	h.store.MarkCardDone(id)
	h.persistStatus(c, id, cards.StatusDone)
	return c.JSON(http.StatusOK, statsFrom(h.store.Snapshot()))
}

// Skip marks a card skipped without moving the selection
func (h *CardHandler) Skip(c echo.Context) error {
	id := c.Param("id")
	if h.store.Card(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	h.store.SkipCard(id)
	h.persistStatus(c, id, cards.StatusSkipped)
	return c.JSON(http.StatusOK, h.store.Card(id))
}

// Select sets the current selection
func (h *CardHandler) Select(c echo.Context) error {
	id := c.Param("id")
	if h.store.Card(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}

	h.store.SelectCard(id)
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Card selected"})
}

// ExecuteAction dispatches a triage action on a card
func (h *CardHandler) ExecuteAction(c echo.Context) error {
	cardID := c.Param("id")
	actionID := c.Param("actionId")

	var req ports.ExecuteActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	err := h.actionService.Execute(cardID, actionID, req.Confirmed, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, cards.ErrCardNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Card not found")
		case errors.Is(err, cards.ErrActionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Action not available for card")
		case errors.Is(err, cards.ErrConfirmationRequired):
			return echo.NewHTTPError(http.StatusConflict, "Action requires confirmation")
		default:
			h.logger.Errorw("Action execution failed", "card_id", cardID, "action_id", actionID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Action execution failed")
		}
	}

	h.persistCard(c, cardID)
	return c.JSON(http.StatusOK, h.store.Card(cardID))
}
