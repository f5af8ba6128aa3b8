package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBlueprint(t TypeID) Blueprint {
	return Blueprint{
		Type: t,
		Defaults: func(seed int64) Defaults {
			return Defaults{Title: "Test card", Priority: PriorityNormal}
		},
		PayloadFactory: func(seed int64) Payload {
			return OpaquePayload{"seed": seed}
		},
	}
}

func TestRegistryRegisterOnce(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(testBlueprint("invoice")))

	err := reg.Register(testBlueprint("invoice"))
	require.ErrorIs(t, err, ErrTypeAlreadyRegistered)

	bp, ok := reg.Blueprint("invoice")
	require.True(t, ok)
	require.Equal(t, TypeID("invoice"), bp.Type)
}

func TestRegistryRejectsEmptyType(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register(testBlueprint("")))
}

func TestRegistryMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(testBlueprint("invoice"))

	require.Panics(t, func() {
		reg.MustRegister(testBlueprint("invoice"))
	})
}

func TestRegistryUnknownTypeLookup(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Blueprint("ghost")
	require.False(t, ok)
}

func TestRegistryTypes(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(testBlueprint("invoice"))
	reg.MustRegister(testBlueprint("expense"))

	require.ElementsMatch(t, []TypeID{"invoice", "expense"}, reg.Types())
}

func TestRegistryRendererRegisterOnce(t *testing.T) {
	reg := NewRegistry()
	renderer := RendererFunc(func(card *Card, actions []StyledAction) RenderedCard {
		return RenderedCard{CardID: card.ID, Title: "custom"}
	})

	require.NoError(t, reg.RegisterRenderer("invoice", renderer))
	require.ErrorIs(t, reg.RegisterRenderer("invoice", renderer), ErrRendererAlreadyRegistered)
}

func TestRegistryRendererFallsBackToGeneric(t *testing.T) {
	reg := NewRegistry()

	card := &Card{ID: "c1", Type: "ghost", Payload: OpaquePayload{"title": "From payload"}}
	view := reg.RendererFor(card.Type).Render(card, nil)

	require.Equal(t, "From payload", view.Title)
	require.Equal(t, TypeID("ghost"), view.Type)
}

func TestGenericRendererTitleFallback(t *testing.T) {
	card := &Card{ID: "c1", Type: "ghost", Payload: OpaquePayload{}}
	view := GenericRenderer().Render(card, nil)
	require.Equal(t, "Card", view.Title)

	card.Title = "Explicit"
	view = GenericRenderer().Render(card, nil)
	require.Equal(t, "Explicit", view.Title)
}
