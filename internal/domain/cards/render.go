package cards

import "fmt"

// ButtonStyle is the visual treatment of an action affordance.
type ButtonStyle string

const (
	ButtonPrimary     ButtonStyle = "primary"
	ButtonSecondary   ButtonStyle = "secondary"
	ButtonDestructive ButtonStyle = "destructive"
)

// StyledAction pairs an action with its resolved button style.
type StyledAction struct {
	Action
	Style ButtonStyle `json:"style"`
}

// RenderedCard is the structured view a renderer produces for one card.
// Clients invoke the listed actions back through the action endpoint.
type RenderedCard struct {
	CardID  string            `json:"cardId"`
	Type    TypeID            `json:"type"`
	Title   string            `json:"title"`
	Lines   []string          `json:"lines,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
	Actions []StyledAction    `json:"actions"`
}

// Renderer paints a card into its view. The actions passed in have already
// been resolved by the policy layer.
type Renderer interface {
	Render(card *Card, actions []StyledAction) RenderedCard
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(card *Card, actions []StyledAction) RenderedCard

func (f RendererFunc) Render(card *Card, actions []StyledAction) RenderedCard {
	return f(card, actions)
}

// GenericRenderer is the fallback for types without a registered renderer.
func GenericRenderer() Renderer {
	return RendererFunc(func(card *Card, actions []StyledAction) RenderedCard {
		title := card.Title
		if title == "" {
			if opaque, ok := card.Payload.(OpaquePayload); ok {
				if t, ok := opaque.Title(); ok {
					title = t
				}
			}
		}
		if title == "" {
			title = "Card"
		}
		return RenderedCard{
			CardID:  card.ID,
			Type:    card.Type,
			Title:   title,
			Lines:   []string{fmt.Sprintf("Type: %s", card.Type)},
			Actions: actions,
		}
	})
}
