package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceValidate(t *testing.T) {
	assert.NoError(t, Price{Unit: UnitKg, PerKg: 280}.Validate())
	assert.NoError(t, Price{Unit: UnitPiece, PerPiece: 120}.Validate())

	assert.Error(t, Price{Unit: UnitKg}.Validate())
	assert.Error(t, Price{Unit: UnitKg, PerKg: 280, PerPiece: 120}.Validate())
	assert.Error(t, Price{Unit: UnitPiece, PerPiece: 120, PerKg: 280}.Validate())
	assert.Error(t, Price{Unit: "dozen", PerPiece: 120}.Validate())
}

func TestPricePerUnit(t *testing.T) {
	assert.Equal(t, 280.0, Price{Unit: UnitKg, PerKg: 280}.PerUnit())
	assert.Equal(t, 120.0, Price{Unit: UnitPiece, PerPiece: 120}.PerUnit())
}
