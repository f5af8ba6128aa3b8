package cards

// Defaults are the mock base fields a blueprint produces for a seed.
type Defaults struct {
	Title    string
	Priority Priority
}

// Blueprint is the registration record for one card type: how its mock data
// is generated, which connectors apply, which actions are statically
// configured, and how its wire payload decodes into a typed variant.
//
// Defaults and PayloadFactory must be pure: the same seed always yields the
// same result.
type Blueprint struct {
	Type TypeID

	// Connectors is the fallback connector list used when the data source
	// does not supply its own.
	Connectors []string

	Defaults       func(seed int64) Defaults
	PayloadFactory func(seed int64) Payload

	// Actions computes the statically configured actions for a card of this
	// type. Backend-declared actions on the card take precedence.
	Actions func(card *Card) []Action

	// DecodePayload converts a normalized wire payload into the typed
	// variant. Nil means the payload stays opaque.
	DecodePayload func(raw map[string]any) (Payload, error)
}
