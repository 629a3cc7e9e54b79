// Package cart implements the buyer's in-progress selection of products and
// quantities, independent of any specific page or request handler.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Item is a single cart line: product identity, the display fields captured
// when the product was first added, and the requested quantity.
type Item struct {
	ID       string
	Title    string
	Image    string
	Price    decimal.Decimal
	Quantity int
}

// Subtotal returns Price * Quantity for this line.
func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Store holds the cart state and notifies subscribers after every mutation.
// At most one Item per product ID exists at any time; repeated adds increment
// the quantity of the existing line instead of creating duplicates.
type Store struct {
	mu      sync.Mutex
	items   []Item
	subs    map[int]func()
	nextSub int
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{subs: make(map[int]func())}
}

// Add inserts item with quantity 1, or increments the quantity of the
// existing line with the same ID. On a repeat add the supplied title, image
// and price are ignored: the line keeps the values captured at first add.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	item.Quantity = 1
	s.items = append(s.items, item)
	s.mu.Unlock()
	s.notify()
}

// Remove decrements the quantity of the line with the given ID, deleting the
// line entirely when its quantity would reach zero. Removing an absent ID is
// a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--
		} else {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		changed = true
		break
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.notify()
}

// ItemCount returns the quantity of the line with the given ID, or 0 when no
// such line exists. Pure query.
func (s *Store) ItemCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i].Quantity
		}
	}
	return 0
}

// TotalCount returns the sum of quantities across all lines. Used for the
// navigation badge.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

// Items returns a snapshot copy of all lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Subtotal returns the sum of line subtotals.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for i := range s.items {
		total = total.Add(s.items[i].Subtotal())
	}
	return total
}

// Subscribe registers fn to be called after every mutation (add, remove,
// clear). The returned function unsubscribes. Callbacks run synchronously on
// the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify invokes subscriber callbacks. Must be called without holding mu.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
