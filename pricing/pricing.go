// Package pricing holds the shop's pure money and quantity rules: line
// subtotals, quantity validation, the delivery-charge policy, and the
// minimum-order gate. Nothing here touches storage or the network.
package pricing

import (
	"github.com/shopspring/decimal"

	"bismi-shop/config"
	"bismi-shop/models"
)

const (
	MinKg  = 0.5
	MaxKg  = 50
	KgStep = 0.25
	MinPcs = 1
)

// RoundMoney rounds an amount to 2 decimal places. Applied at the point of
// order persistence; cart display may show unrounded values.
func RoundMoney(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// LineSubtotal is quantity × locked unit price for a cart line, unrounded.
func LineSubtotal(line models.CartLine) float64 {
	if line.Unit == models.UnitPiece {
		return float64(line.Pieces) * line.UnitPrice
	}
	return line.Kg * line.UnitPrice
}

// ValidateQuantity reports whether a kg quantity is sellable:
// 0.5–50 kg in 0.25 kg steps.
func ValidateQuantity(kg float64) bool {
	if kg < MinKg || kg > MaxKg {
		return false
	}
	// kg must be a multiple of 0.25; 4×kg is then a whole number.
	quarters := decimal.NewFromFloat(kg).Mul(decimal.NewFromInt(4))
	return quarters.IsInteger()
}

// ValidatePieceCount reports whether a piece count is sellable. No upper
// bound is enforced.
func ValidatePieceCount(n int) bool {
	return n >= MinPcs
}

// ValidateLineQuantity dispatches on the line's unit.
func ValidateLineQuantity(line models.CartLine) bool {
	if line.Unit == models.UnitPiece {
		return ValidatePieceCount(line.Pieces)
	}
	return ValidateQuantity(line.Kg)
}

// ComputeDeliveryCharge applies the configured policy to a subtotal.
// Pickup orders never pay delivery; callers handle that before asking.
func ComputeDeliveryCharge(policy config.DeliveryPolicy, subtotal float64) float64 {
	switch policy.Kind {
	case config.DeliveryFlat:
		if policy.FreeAbove > 0 && subtotal >= policy.FreeAbove {
			return 0
		}
		return policy.Fee
	default: // config.DeliveryFree
		return 0
	}
}

// IsBelowMinimumOrder gates checkout on the shop's minimum order amount.
func IsBelowMinimumOrder(subtotal, minimum float64) bool {
	return subtotal < minimum
}

// CartSubtotal sums line subtotals over a cart.
func CartSubtotal(lines []models.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += LineSubtotal(l)
	}
	return sum
}
