// Package cards keeps the ordered homepage card collection in memory and in
// sync with its repository.
package cards

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"vkseva-content/internal/domain"
	"vkseva-content/internal/metrics"
)

// Repository is the persistence contract the store needs. Repositories that
// also implement domain.OrderWriter get atomic renumbering.
type Repository interface {
	List(ctx context.Context) ([]domain.Card, error)
	Create(ctx context.Context, c domain.Card) (string, error)
	Update(ctx context.Context, id string, patch domain.CardPatch) error
	Delete(ctx context.Context, id string) error
}

// Store caches cards sorted by order. Mutations are applied one at a time in
// call order; readers always see a consistent snapshot.
type Store struct {
	repo   Repository
	orders domain.OrderWriter
	logger *log.Logger

	loading atomic.Bool
	mutate  sync.Mutex

	mu    sync.RWMutex
	cards []domain.Card
}

func New(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{repo: repo, logger: logger}
	if ow, ok := repo.(domain.OrderWriter); ok {
		s.orders = ow
	}
	return s
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	return s.loading.Load()
}

// Fetch reloads the cache from the repository, seeding the default cards
// into an empty collection and repairing gaps in the order sequence. Errors
// are logged and leave the cache untouched.
func (s *Store) Fetch(ctx context.Context) {
	if err := s.Sync(ctx); err != nil {
		s.logger.Printf("cards fetch failed: %v", err)
	}
}

// Sync is Fetch with the error returned. A call made while another fetch is
// running returns nil without doing anything.
func (s *Store) Sync(ctx context.Context) (err error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil
	}
	defer s.loading.Store(false)
	defer func() { metrics.ObserveStore("cards", "fetch", err) }()

	s.mutate.Lock()
	defer s.mutate.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}
	if len(list) == 0 {
		for _, c := range domain.DefaultCards() {
			if _, err := s.repo.Create(ctx, c); err != nil {
				return fmt.Errorf("seed card %q: %w", c.Title, err)
			}
		}
		s.logger.Printf("seeded %d default cards", len(domain.DefaultCards()))
		if list, err = s.repo.List(ctx); err != nil {
			return fmt.Errorf("list cards: %w", err)
		}
	}

	sortByOrder(list)
	var changes []domain.OrderChange
	for i := range list {
		if want := i + 1; list[i].Order != want {
			changes = append(changes, domain.OrderChange{ID: list[i].ID, Order: want})
			list[i].Order = want
		}
	}
	if len(changes) > 0 {
		if err := s.writeOrders(ctx, changes); err != nil {
			return fmt.Errorf("heal card order: %w", err)
		}
		s.logger.Printf("healed order of %d cards", len(changes))
		metrics.OrdersHealed(len(changes))
	}

	s.mu.Lock()
	if !sameCards(s.cards, list) {
		s.cards = list
	}
	s.mu.Unlock()
	return nil
}

// Add appends c after the current last card and returns it with the id the
// repository assigned.
func (s *Store) Add(ctx context.Context, c domain.Card) (card domain.Card, err error) {
	defer func() { metrics.ObserveStore("cards", "add", err) }()
	c.Badges = domain.NormalizeBadges(c.Badges)
	if err := c.Validate(); err != nil {
		return domain.Card{}, err
	}

	s.mutate.Lock()
	defer s.mutate.Unlock()

	s.mu.RLock()
	c.ID = ""
	c.Order = len(s.cards) + 1
	s.mu.RUnlock()

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	c.ID = id

	s.mu.Lock()
	s.cards = append(s.cards, c.Clone())
	s.mu.Unlock()
	return c, nil
}

// Update applies patch to the card with id. Order is managed by Add, Remove
// and Move, so any order in the patch is ignored.
func (s *Store) Update(ctx context.Context, id string, patch domain.CardPatch) (card domain.Card, err error) {
	defer func() { metrics.ObserveStore("cards", "update", err) }()
	patch.Order = nil
	if patch.Badges != nil {
		b := domain.NormalizeBadges(*patch.Badges)
		patch.Badges = &b
	}
	if err := patch.Validate(); err != nil {
		return domain.Card{}, err
	}

	s.mutate.Lock()
	defer s.mutate.Unlock()

	idx, current, ok := s.find(id)
	if !ok {
		return domain.Card{}, domain.ErrNotFound
	}
	if patch.IsEmpty() {
		return current, nil
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return domain.Card{}, fmt.Errorf("update card %s: %w", id, err)
	}

	next := patch.Apply(current)
	s.mu.Lock()
	s.cards[idx] = next
	s.mu.Unlock()
	return next.Clone(), nil
}

// Remove deletes the card and renumbers the rest to close the gap. When the
// delete succeeds but renumbering fails, the card is still dropped from the
// cache and the next fetch repairs the order.
func (s *Store) Remove(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveStore("cards", "remove", err) }()
	s.mutate.Lock()
	defer s.mutate.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}

	s.mu.RLock()
	remaining := make([]domain.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if c.ID != id {
			remaining = append(remaining, c.Clone())
		}
	}
	s.mu.RUnlock()
	sortByOrder(remaining)

	renumbered := make([]domain.Card, len(remaining))
	var changes []domain.OrderChange
	for i, c := range remaining {
		renumbered[i] = c
		if want := i + 1; c.Order != want {
			changes = append(changes, domain.OrderChange{ID: c.ID, Order: want})
			renumbered[i].Order = want
		}
	}

	if err := s.writeOrders(ctx, changes); err != nil {
		s.replace(remaining)
		return fmt.Errorf("renumber cards: %w", err)
	}
	s.replace(renumbered)
	return nil
}

// ToggleActive flips the visibility of the card with id.
func (s *Store) ToggleActive(ctx context.Context, id string) (card domain.Card, err error) {
	defer func() { metrics.ObserveStore("cards", "toggle", err) }()
	s.mutate.Lock()
	defer s.mutate.Unlock()

	idx, current, ok := s.find(id)
	if !ok {
		return domain.Card{}, domain.ErrNotFound
	}
	active := !current.Active
	if err := s.repo.Update(ctx, id, domain.CardPatch{Active: &active}); err != nil {
		s.logger.Printf("toggle card %s: %v", id, err)
		return domain.Card{}, fmt.Errorf("toggle card %s: %w", id, err)
	}

	current.Active = active
	s.mu.Lock()
	s.cards[idx] = current
	s.mu.Unlock()
	return current.Clone(), nil
}

// Move swaps the card with its neighbour above (direction -1) or below (+1).
// Moving past either end does nothing.
func (s *Store) Move(ctx context.Context, id string, direction int) (err error) {
	defer func() { metrics.ObserveStore("cards", "move", err) }()
	if direction != -1 && direction != 1 {
		return domain.ErrInvalidDirection
	}
	s.mutate.Lock()
	defer s.mutate.Unlock()

	sorted := s.Cards()
	idx := -1
	for i, c := range sorted {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	target := idx + direction
	if target < 0 || target >= len(sorted) {
		return nil
	}

	a, b := &sorted[idx], &sorted[target]
	a.Order, b.Order = b.Order, a.Order
	changes := []domain.OrderChange{{ID: a.ID, Order: a.Order}, {ID: b.ID, Order: b.Order}}
	if err := s.writeOrders(ctx, changes); err != nil {
		return fmt.Errorf("move card %s: %w", id, err)
	}

	sortByOrder(sorted)
	s.replace(sorted)
	return nil
}

// Cards returns a copy of every cached card sorted by order.
func (s *Store) Cards() []domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Clone()
	}
	sortByOrder(out)
	return out
}

// Active returns the visible cards sorted by order.
func (s *Store) Active() []domain.Card {
	all := s.Cards()
	out := all[:0]
	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) writeOrders(ctx context.Context, changes []domain.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	if s.orders != nil {
		return s.orders.SetOrders(ctx, changes)
	}
	for _, ch := range changes {
		order := ch.Order
		if err := s.repo.Update(ctx, ch.ID, domain.CardPatch{Order: &order}); err != nil {
			return fmt.Errorf("set order id=%s: %w", ch.ID, err)
		}
	}
	return nil
}

func (s *Store) find(id string) (int, domain.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, c := range s.cards {
		if c.ID == id {
			return i, c.Clone(), true
		}
	}
	return -1, domain.Card{}, false
}

func (s *Store) replace(cards []domain.Card) {
	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
}

func sortByOrder(cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Order < cards[j].Order })
}

func sameCards(a, b []domain.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
