package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bismi-shop/config"
	"bismi-shop/models"
)

func TestValidateQuantity(t *testing.T) {
	cases := []struct {
		kg   float64
		want bool
	}{
		{0.5, true},
		{0.6, false},
		{0.75, true},
		{1, true},
		{12.25, true},
		{50, true},
		{50.25, false},
		{0.25, false},
		{0, false},
		{-1, false},
		{49.99, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidateQuantity(c.kg), "kg=%v", c.kg)
	}
}

func TestValidatePieceCount(t *testing.T) {
	assert.False(t, ValidatePieceCount(0))
	assert.False(t, ValidatePieceCount(-2))
	assert.True(t, ValidatePieceCount(1))
	assert.True(t, ValidatePieceCount(250)) // no upper bound
}

func TestLineSubtotal(t *testing.T) {
	kgLine := models.CartLine{Unit: models.UnitKg, Kg: 2, UnitPrice: 280}
	assert.Equal(t, 560.0, LineSubtotal(kgLine))

	pieceLine := models.CartLine{Unit: models.UnitPiece, Pieces: 4, UnitPrice: 120}
	assert.Equal(t, 480.0, LineSubtotal(pieceLine))
}

func TestCartSubtotal(t *testing.T) {
	lines := []models.CartLine{
		{Unit: models.UnitKg, Kg: 2, UnitPrice: 280},
		{Unit: models.UnitPiece, Pieces: 4, UnitPrice: 120},
	}
	assert.Equal(t, 1040.0, CartSubtotal(lines))
}

func TestComputeDeliveryCharge(t *testing.T) {
	free := config.DeliveryPolicy{Kind: config.DeliveryFree}
	assert.Equal(t, 0.0, ComputeDeliveryCharge(free, 50))
	assert.Equal(t, 0.0, ComputeDeliveryCharge(free, 5000))

	flat := config.DeliveryPolicy{Kind: config.DeliveryFlat, Fee: 30, FreeAbove: 1500}
	assert.Equal(t, 30.0, ComputeDeliveryCharge(flat, 1040))
	assert.Equal(t, 0.0, ComputeDeliveryCharge(flat, 1500))
	assert.Equal(t, 0.0, ComputeDeliveryCharge(flat, 2000))

	alwaysFlat := config.DeliveryPolicy{Kind: config.DeliveryFlat, Fee: 30}
	assert.Equal(t, 30.0, ComputeDeliveryCharge(alwaysFlat, 99999))
}

func TestIsBelowMinimumOrder(t *testing.T) {
	assert.True(t, IsBelowMinimumOrder(99.99, 100))
	assert.False(t, IsBelowMinimumOrder(100, 100))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 0.13, RoundMoney(0.125))
	assert.Equal(t, 1070.0, RoundMoney(1070))
	assert.Equal(t, 93.33, RoundMoney(93.3333333))
	// float artifacts from kg arithmetic round cleanly
	assert.Equal(t, 157.5, RoundMoney(0.75*210))
}
