package cards

import "time"

// Payload is the tagged union of card payload shapes. Concrete variants live
// in the feature packages and report the type they were registered under;
// OpaquePayload is the variant for types without a registered decoder.
type Payload interface {
	PayloadType() TypeID
}

// OpaquePayload carries a payload whose shape is unknown to the engine. It is
// a first-class variant, not an error case: cards of unregistered types still
// display through the generic renderer.
type OpaquePayload map[string]any

func (OpaquePayload) PayloadType() TypeID { return "" }

// Title extracts a display title from the raw payload when the card itself
// does not carry one.
func (p OpaquePayload) Title() (string, bool) {
	v, ok := p["title"].(string)
	return v, ok && v != ""
}

// Field helpers used by blueprint payload decoders. The raw maps they read
// have already been through date normalization, so timestamps are time.Time.

func StringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func BoolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func TimeField(m map[string]any, key string) (time.Time, bool) {
	v, ok := m[key].(time.Time)
	return v, ok
}

func MapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func StringSliceField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
