package cards

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Wire ingestion: externally sourced card data arrives with ISO-8601 strings
// wherever the internal model has time.Time. NormalizeDates walks a decoded
// JSON value and parses every string that matches a recognized ISO pattern;
// everything else passes through unchanged. The pattern check avoids false
// positives such as plain numbers-as-strings.

var (
	dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?$`)
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999-0700",
}

// NormalizeDates recursively converts ISO-8601 strings to time.Time,
// preserving structure. Values that are already time.Time pass through, so
// the operation is idempotent.
func NormalizeDates(v any) any {
	switch val := v.(type) {
	case string:
		if t, ok := ParseISO(val); ok {
			return t
		}
		return val
	case time.Time:
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeDates(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = NormalizeDates(item)
		}
		return out
	default:
		return val
	}
}

// ParseISO parses a string as an ISO-8601 date or date-time. The second
// return value reports whether the string matched a recognized format.
func ParseISO(s string) (time.Time, bool) {
	if dateOnlyPattern.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		return t, err == nil
	}
	if !dateTimePattern.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WireCard is the wire-format representation of a card prior to
// normalization into the internal entity.
type WireCard struct {
	ID         string          `json:"id"`
	Type       TypeID          `json:"type"`
	Title      string          `json:"title,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Status     Status          `json:"status"`
	Priority   Priority        `json:"priority,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
	Connectors []string        `json:"connectors,omitempty"`
	Actions    []Action        `json:"actions,omitempty"`
}

// FromWire normalizes a wire record and hands it to the production creation
// path: payload dates are parsed, the title falls back to a payload-derived
// one or the literal "Card", and the blueprint's decoder produces the typed
// payload variant (opaque when it has none).
func (f *Factory) FromWire(w WireCard) (*Card, error) {
	var raw any
	if len(w.Payload) > 0 {
		if err := json.Unmarshal(w.Payload, &raw); err != nil {
			return nil, fmt.Errorf("decode payload for card %q: %w", w.ID, err)
		}
	}
	normalized := NormalizeDates(raw)

	payloadMap, _ := normalized.(map[string]any)
	if payloadMap == nil {
		payloadMap = map[string]any{}
		if normalized != nil {
			payloadMap["value"] = normalized
		}
	}

	title := w.Title
	if title == "" {
		title = StringField(payloadMap, "title")
	}
	if title == "" {
		title = "Card"
	}

	createdAt, err := parseWireTimestamp(w.CreatedAt, "createdAt", w.ID)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseWireTimestamp(w.UpdatedAt, "updatedAt", w.ID)
	if err != nil {
		return nil, err
	}

	var payload Payload = OpaquePayload(payloadMap)
	if bp, ok := f.registry.Blueprint(w.Type); ok && bp.DecodePayload != nil {
		typed, err := bp.DecodePayload(payloadMap)
		if err != nil {
			return nil, fmt.Errorf("decode %s payload for card %q: %w", w.Type, w.ID, err)
		}
		payload = typed
	}

	return f.CreateFromData(w.Type, CardData{
		ID:         w.ID,
		Title:      title,
		Payload:    payload,
		Status:     w.Status,
		Priority:   w.Priority,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Connectors: w.Connectors,
		Actions:    w.Actions,
	})
}

// FromWireBatch maps a full wire collection. One malformed record fails the
// whole batch; the store boundary decides how to surface that.
func (f *Factory) FromWireBatch(ws []WireCard) ([]*Card, error) {
	out := make([]*Card, 0, len(ws))
	for _, w := range ws {
		card, err := f.FromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

func parseWireTimestamp(s, field, cardID string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, ok := ParseISO(s)
	if !ok {
		return time.Time{}, fmt.Errorf("card %q: %s %q is not an ISO-8601 timestamp", cardID, field, s)
	}
	return t, nil
}
