// Package cart implements the shopping cart: a pure reducer over tagged
// commands, wrapped by a Store that persists the full line collection on
// every mutation through an injectable Port.
package cart

import (
	"bismi-shop/models"
)

// State is the cart line collection. At most one line exists per product id.
type State struct {
	Lines []models.CartLine
}

// Command is a tagged cart mutation. Apply is the only interpreter.
type Command interface{ isCommand() }

// AddItem appends a line, or accumulates quantity into the existing line for
// the same product id.
type AddItem struct{ Line models.CartLine }

// UpdateQuantity sets the quantity field matching the line's unit.
// No-op if the product id is absent.
type UpdateQuantity struct {
	ProductID string
	Kg        float64
	Pieces    int
}

// RemoveItem deletes the matching line. No-op if absent.
type RemoveItem struct{ ProductID string }

// Clear empties the cart.
type Clear struct{}

// Hydrate replaces the whole state with previously persisted lines.
type Hydrate struct{ Lines []models.CartLine }

func (AddItem) isCommand()        {}
func (UpdateQuantity) isCommand() {}
func (RemoveItem) isCommand()     {}
func (Clear) isCommand()          {}
func (Hydrate) isCommand()        {}

// Apply is the pure state transition function. It never mutates its input;
// callers own the returned state.
func Apply(state State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		for i, line := range state.Lines {
			if line.ProductID == c.Line.ProductID {
				updated := copyLines(state.Lines)
				if line.Unit == models.UnitPiece {
					updated[i].Pieces += c.Line.Pieces
				} else {
					updated[i].Kg += c.Line.Kg
				}
				return State{Lines: updated}
			}
		}
		return State{Lines: append(copyLines(state.Lines), c.Line)}

	case UpdateQuantity:
		updated := copyLines(state.Lines)
		for i, line := range updated {
			if line.ProductID == c.ProductID {
				if line.Unit == models.UnitPiece {
					updated[i].Pieces = c.Pieces
				} else {
					updated[i].Kg = c.Kg
				}
			}
		}
		return State{Lines: updated}

	case RemoveItem:
		updated := make([]models.CartLine, 0, len(state.Lines))
		for _, line := range state.Lines {
			if line.ProductID != c.ProductID {
				updated = append(updated, line)
			}
		}
		return State{Lines: updated}

	case Clear:
		return State{}

	case Hydrate:
		return State{Lines: copyLines(c.Lines)}
	}
	return state
}

func copyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
