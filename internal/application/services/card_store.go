package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/infrastructure/logger"
	"github.com/decisiondeck/core/internal/ports"
)

// CardStore is the single authoritative in-memory holder of the card
// collection and the sole point of mutation. Commands run to completion
// under the lock, so no other command observes intermediate state; the only
// suspension point is the repository fetch in LoadCards, which happens
// outside the lock.
type CardStore struct {
	mu sync.Mutex

	cards          []*cards.Card
	selectedCardID string
	loading        bool
	err            string
	initialized    bool

	logger *logger.Logger
}

func NewCardStore(log *logger.Logger) *CardStore {
	return &CardStore{logger: log.WithComponent("card_store")}
}

// CardPatch is a partial card update. Nil fields are left untouched.
type CardPatch struct {
	Title      *string
	Status     *cards.Status
	Priority   *cards.Priority
	Payload    cards.Payload
	Connectors []string
	Actions    []cards.Action
}

// LoadCards fetches the collection from the repository at most once. The
// guard is check-and-set under the lock: a second caller arriving while a
// load is in flight, or after one succeeded, returns immediately. On failure
// the error message is recorded, the previous collection is kept, and
// initialized stays false so a later retry can re-fetch.
func (s *CardStore) LoadCards(ctx context.Context, repo ports.CardRepository) error {
	s.mu.Lock()
	if s.initialized || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	list, err := repo.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		s.logger.Errorw("Failed to load cards", "error", err)
		return err
	}

	s.cards = list
	s.initialized = true
	s.logger.Infow("Cards loaded", "count", len(list))
	return nil
}

// SetCards replaces the whole collection.
func (s *CardStore) SetCards(list []*cards.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = list
}

// AddCard appends a card to the collection.
func (s *CardStore) AddCard(card *cards.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, card)
}

// RemoveCard drops a card from the collection. If the selection pointed at
// it, the selection is cleared. Unknown ids are ignored.
func (s *CardStore) RemoveCard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.cards[:0]
	for _, c := range s.cards {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	s.cards = filtered
	if s.selectedCardID == id {
		s.selectedCardID = ""
	}
}

// UpdateCard applies a partial update and refreshes UpdatedAt. Unknown ids
// are a silent no-op: mutations are best-effort against the current
// snapshot.
func (s *CardStore) UpdateCard(id string, patch CardPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyPatch(id, patch)
}

func (s *CardStore) applyPatch(id string, patch CardPatch) {
	for _, c := range s.cards {
		if c.ID != id {
			continue
		}
		if patch.Title != nil {
			c.Title = *patch.Title
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if patch.Priority != nil {
			c.Priority = *patch.Priority
		}
		if patch.Payload != nil {
			c.Payload = patch.Payload
		}
		if patch.Connectors != nil {
			c.Connectors = patch.Connectors
		}
		if patch.Actions != nil {
			c.Actions = patch.Actions
		}
		c.UpdatedAt = time.Now()
		return
	}
}

// SelectCard sets the current selection. Existence is not validated:
// selecting an unknown id simply yields "no selected card" downstream.
func (s *CardStore) SelectCard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCardID = id
}

// MarkCardDone marks the card done and advances the selection to the next
// pending card: scanning forward from the card's position, wrapping to the
// first pending card anywhere, else clearing the selection. Unknown ids are
// a no-op.
func (s *CardStore) MarkCardDone(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.cards {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	done := cards.StatusDone
	s.applyPatch(id, CardPatch{Status: &done})

	next := ""
	for _, c := range s.cards[idx+1:] {
		if c.IsPending() {
			next = c.ID
			break
		}
	}
	if next == "" {
		for _, c := range s.cards {
			if c.IsPending() {
				next = c.ID
				break
			}
		}
	}
	s.selectedCardID = next
}

// SkipCard marks the card skipped. Unlike MarkCardDone it leaves the
// selection alone. Unknown ids are a no-op.
func (s *CardStore) SkipCard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	skipped := cards.StatusSkipped
	s.applyPatch(id, CardPatch{Status: &skipped})
}

// ClearError discards the recorded load error.
func (s *CardStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Queries. All return copies; the collection is owned exclusively by the
// store.

// Card returns a copy of the card with the given id, or nil.
func (s *CardStore) Card(id string) *cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c.Clone()
		}
	}
	return nil
}

// Cards returns a copy of the whole collection in order.
func (s *CardStore) Cards() []*cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*cards.Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Clone()
	}
	return out
}

// SelectedCard returns a copy of the currently selected card, or nil when
// nothing is selected or the selection points at a card no longer present.
func (s *CardStore) SelectedCard() *cards.Card {
	s.mu.Lock()
	id := s.selectedCardID
	s.mu.Unlock()
	if id == "" {
		return nil
	}
	return s.Card(id)
}

func (s *CardStore) SelectedCardID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCardID
}

func (s *CardStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *CardStore) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *CardStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *CardStore) TotalCards() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

func (s *CardStore) DoneCards() int {
	return s.countStatus(cards.StatusDone)
}

func (s *CardStore) PendingCards() int {
	return s.countStatus(cards.StatusPending)
}

func (s *CardStore) countStatus(status cards.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.Status == status {
			n++
		}
	}
	return n
}

// ProgressPercentage is round(done/total*100), 0 for an empty collection.
func (s *CardStore) ProgressPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress(s.cards)
}

func progress(list []*cards.Card) int {
	total := len(list)
	if total == 0 {
		return 0
	}
	done := 0
	for _, c := range list {
		if c.Status == cards.StatusDone {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// StoreSnapshot is a consistent point-in-time view of the store, taken under
// a single lock acquisition.
type StoreSnapshot struct {
	Cards          []*cards.Card
	SelectedCardID string
	Loading        bool
	Initialized    bool
	Error          string
	Total          int
	Done           int
	Pending        int
	Progress       int
}

func (s *CardStore) Snapshot() StoreSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StoreSnapshot{
		Cards:          make([]*cards.Card, len(s.cards)),
		SelectedCardID: s.selectedCardID,
		Loading:        s.loading,
		Initialized:    s.initialized,
		Error:          s.err,
		Total:          len(s.cards),
		Progress:       progress(s.cards),
	}
	for i, c := range s.cards {
		snap.Cards[i] = c.Clone()
		switch c.Status {
		case cards.StatusDone:
			snap.Done++
		case cards.StatusPending:
			snap.Pending++
		}
	}
	return snap
}
