package cart

import (
	"context"
	"fmt"
	"sync"

	"bismi-shop/models"
	"bismi-shop/pricing"
)

// Port is the persistence boundary for a single session's cart. Load returns
// nil lines when nothing was stored. Implementations must replace the whole
// collection atomically on Save.
type Port interface {
	Load(ctx context.Context) ([]models.CartLine, error)
	Save(ctx context.Context, lines []models.CartLine) error
}

// Store is one shopper session's cart: reducer state plus write-through
// persistence. A single logical writer drives it; the mutex only guards the
// replace-on-write.
type Store struct {
	mu    sync.Mutex
	state State
	port  Port
}

// NewStore builds a Store hydrated from the port. Corrupt or unreadable
// stored state is treated as an empty cart; startup never fails on it.
func NewStore(ctx context.Context, port Port) *Store {
	s := &Store{port: port}
	if lines, err := port.Load(ctx); err == nil && len(lines) > 0 {
		s.state = Apply(s.state, Hydrate{Lines: lines})
	}
	return s
}

// dispatch applies a command and persists the result. On persistence failure
// the previous state is kept so the mutation can be retried.
func (s *Store) dispatch(ctx context.Context, cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Apply(s.state, cmd)
	if err := s.port.Save(ctx, next.Lines); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	s.state = next
	return nil
}

// AddItem adds a line, accumulating quantity when the product is already in
// the cart. The quantity must pass the unit's validation rule.
func (s *Store) AddItem(ctx context.Context, line models.CartLine) error {
	if !pricing.ValidateLineQuantity(line) {
		return errBadQuantity(line.Unit)
	}
	return s.dispatch(ctx, AddItem{Line: line})
}

// UpdateQuantity sets the quantity of an existing line. No-op for unknown
// product ids.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, kg float64, pieces int) error {
	s.mu.Lock()
	var existing *models.CartLine
	for i := range s.state.Lines {
		if s.state.Lines[i].ProductID == productID {
			existing = &s.state.Lines[i]
			break
		}
	}
	s.mu.Unlock()
	if existing == nil {
		return nil
	}
	if existing.Unit == models.UnitPiece {
		if !pricing.ValidatePieceCount(pieces) {
			return errBadQuantity(models.UnitPiece)
		}
	} else if !pricing.ValidateQuantity(kg) {
		return errBadQuantity(models.UnitKg)
	}
	return s.dispatch(ctx, UpdateQuantity{ProductID: productID, Kg: kg, Pieces: pieces})
}

// RemoveItem deletes a line. No-op for unknown product ids.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	return s.dispatch(ctx, RemoveItem{ProductID: productID})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.dispatch(ctx, Clear{})
}

// Lines returns a copy of the current line collection.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.state.Lines)
}

// Subtotal is the sum of line subtotals, unrounded (display value).
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.CartSubtotal(s.state.Lines)
}

// ItemCount is the number of distinct lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Lines)
}

// QuantityError is returned for quantities outside the unit's rules.
type QuantityError struct{ Unit models.Unit }

func (e *QuantityError) Error() string {
	if e.Unit == models.UnitPiece {
		return "quantity must be a whole number of pieces, at least 1"
	}
	return "quantity must be between 0.5 kg and 50 kg in 0.25 kg steps"
}

func errBadQuantity(u models.Unit) error {
	return &QuantityError{Unit: u}
}
