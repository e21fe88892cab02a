// Package cart implements the in-memory cart for one session. All
// mutation goes through setQuantity so the stock cap is applied the same
// way on add and on update.
package cart

import (
	"sync"

	"tattva/internal/catalog"
	"tattva/internal/domain"
)

// Key identifies one cart line.
type Key struct {
	ProductID string
	VariantID string
}

// Line is a snapshot of one cart entry. UnitPrice is the effective
// variant price captured when the line was created.
type Line struct {
	ProductID   string
	VariantID   string
	Name        string
	VariantName string
	Image       string
	UnitPrice   float64
	Stock       int
	Quantity    int
}

// Store holds the lines of a single session cart. It is safe for
// concurrent use; handlers for the same session may overlap.
type Store struct {
	mu    sync.Mutex
	order []Key
	lines map[Key]*Line
	subs  []func([]Line)
}

func NewStore() *Store {
	return &Store{lines: make(map[Key]*Line)}
}

// Subscribe registers fn to receive a snapshot after every mutation.
// Used to persist the cart; fn runs synchronously on the mutating call.
func (s *Store) Subscribe(fn func([]Line)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// setQuantity is the one place quantities change. It caps at the line's
// stock, removes the line at qty <= 0, and preserves insertion order.
// Callers must hold s.mu.
func (s *Store) setQuantity(k Key, qty int) {
	ln, ok := s.lines[k]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(s.lines, k)
		for i, o := range s.order {
			if o == k {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	if qty > ln.Stock {
		qty = ln.Stock
	}
	ln.Quantity = qty
}

func (s *Store) notify() {
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// Add inserts a line or raises the quantity of an existing one. The
// result is always capped at the variant's stock, including the initial
// insert. Adding a zero-stock variant leaves the cart unchanged.
func (s *Store) Add(p domain.Product, v domain.Variant, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{ProductID: p.ID, VariantID: v.ID}
	if ln, ok := s.lines[k]; ok {
		s.setQuantity(k, ln.Quantity+qty)
		s.notify()
		return
	}
	if v.Stock <= 0 {
		return
	}
	img := ""
	if len(p.Images) > 0 {
		img = p.Images[0]
	}
	s.lines[k] = &Line{
		ProductID:   p.ID,
		VariantID:   v.ID,
		Name:        p.Name,
		VariantName: v.Name,
		Image:       img,
		UnitPrice:   catalog.EffectivePrice(v),
		Stock:       v.Stock,
	}
	s.order = append(s.order, k)
	s.setQuantity(k, qty)
	s.notify()
}

// UpdateQuantity sets a line's quantity; qty <= 0 removes the line.
func (s *Store) UpdateQuantity(productID, variantID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuantity(Key{ProductID: productID, VariantID: variantID}, qty)
	s.notify()
}

// Remove deletes a line; no-op if absent.
func (s *Store) Remove(productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setQuantity(Key{ProductID: productID, VariantID: variantID}, 0)
	s.notify()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[Key]*Line)
	s.order = nil
	s.notify()
}

// Restore replaces the cart contents with previously persisted lines,
// without notifying subscribers.
func (s *Store) Restore(lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[Key]*Line, len(lines))
	s.order = s.order[:0]
	for i := range lines {
		ln := lines[i]
		k := Key{ProductID: ln.ProductID, VariantID: ln.VariantID}
		if _, dup := s.lines[k]; dup {
			continue
		}
		s.lines[k] = &ln
		s.order = append(s.order, k)
	}
}

func (s *Store) snapshotLocked() []Line {
	out := make([]Line, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.lines[k])
	}
	return out
}

// Lines returns the cart contents in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ItemCount is the sum of line quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ln := range s.lines {
		n += ln.Quantity
	}
	return n
}

// Subtotal is the sum of quantity times effective unit price.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, ln := range s.lines {
		total += float64(ln.Quantity) * ln.UnitPrice
	}
	return total
}

func (s *Store) Contains(productID, variantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lines[Key{ProductID: productID, VariantID: variantID}]
	return ok
}

// Quantity returns a line's quantity, 0 if absent.
func (s *Store) Quantity(productID, variantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ln, ok := s.lines[Key{ProductID: productID, VariantID: variantID}]; ok {
		return ln.Quantity
	}
	return 0
}
