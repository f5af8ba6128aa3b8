// Package features wires the built-in card types into a registry. Start-up
// registration is explicit and ordered here, never a side effect of imports.
package features

import (
	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/features/calendar"
	"github.com/decisiondeck/core/internal/features/notification"
)

// RegisterAll registers every built-in card type (blueprint and renderer).
// It must run exactly once per registry, before any card is created.
func RegisterAll(registry *cards.Registry) error {
	if err := calendar.Register(registry); err != nil {
		return err
	}
	return notification.Register(registry)
}
