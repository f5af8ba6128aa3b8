package cards

import (
	"fmt"
	"sync"
)

// Registry is the source of truth mapping a card type to its blueprint and,
// in a parallel table, to its renderer. It is constructed once at process
// start and populated by explicit registration calls before any card is
// created; after start-up it is effectively immutable. The lock only exists
// so that registration order mistakes surface as errors instead of races.
//
// Blueprint registration (data and actions) is kept separate from renderer
// registration so the policy layer can be exercised without any presentation
// dependency.
type Registry struct {
	mu         sync.RWMutex
	blueprints map[TypeID]*Blueprint
	renderers  map[TypeID]Renderer
}

func NewRegistry() *Registry {
	return &Registry{
		blueprints: make(map[TypeID]*Blueprint),
		renderers:  make(map[TypeID]Renderer),
	}
}

// Register stores a blueprint keyed by its type. Registering the same type
// twice is a programming error, not a recoverable condition.
func (r *Registry) Register(bp Blueprint) error {
	if bp.Type == "" {
		return fmt.Errorf("register blueprint: empty type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.blueprints[bp.Type]; exists {
		return fmt.Errorf("register blueprint %q: %w", bp.Type, ErrTypeAlreadyRegistered)
	}
	r.blueprints[bp.Type] = &bp
	return nil
}

// MustRegister is Register for start-up wiring, where a duplicate
// registration should stop the process.
func (r *Registry) MustRegister(bp Blueprint) {
	if err := r.Register(bp); err != nil {
		panic(err)
	}
}

// Blueprint looks up the registration for a type. Absence is a valid,
// expected outcome, not an error.
func (r *Registry) Blueprint(t TypeID) (*Blueprint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bp, ok := r.blueprints[t]
	return bp, ok
}

// Types enumerates all registered types. Order is unspecified.
func (r *Registry) Types() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]TypeID, 0, len(r.blueprints))
	for t := range r.blueprints {
		types = append(types, t)
	}
	return types
}

// RegisterRenderer stores the renderer for a type, with the same
// register-once semantics as Register.
func (r *Registry) RegisterRenderer(t TypeID, renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("register renderer %q: nil renderer", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[t]; exists {
		return fmt.Errorf("register renderer %q: %w", t, ErrRendererAlreadyRegistered)
	}
	r.renderers[t] = renderer
	return nil
}

// RendererFor returns the renderer registered for a type, or the generic
// renderer when none is. Unknown types are rendered, never rejected.
func (r *Registry) RendererFor(t TypeID) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[t]; ok {
		return renderer
	}
	return GenericRenderer()
}
