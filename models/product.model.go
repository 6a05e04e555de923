package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unit is the pricing basis of a product: by weight or by count.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitPiece Unit = "piece"
)

// Price is a unit-tagged price. Exactly one of PerKg/PerPiece is set,
// matching Unit; Validate enforces it so the invariant never lives only in
// the document shape.
type Price struct {
	Unit     Unit    `bson:"unit" json:"unit"`
	PerKg    float64 `bson:"pricePerKg,omitempty" json:"pricePerKg,omitempty"`
	PerPiece float64 `bson:"pricePerPiece,omitempty" json:"pricePerPiece,omitempty"`
}

// PerUnit returns the price for one unit (1 kg or 1 piece).
func (p Price) PerUnit() float64 {
	if p.Unit == UnitPiece {
		return p.PerPiece
	}
	return p.PerKg
}

// Validate checks the unit tag and that exactly the matching price field is set.
func (p Price) Validate() error {
	switch p.Unit {
	case UnitKg:
		if p.PerKg <= 0 {
			return fmt.Errorf("kg-priced product needs pricePerKg > 0")
		}
		if p.PerPiece != 0 {
			return fmt.Errorf("kg-priced product must not set pricePerPiece")
		}
	case UnitPiece:
		if p.PerPiece <= 0 {
			return fmt.Errorf("piece-priced product needs pricePerPiece > 0")
		}
		if p.PerKg != 0 {
			return fmt.Errorf("piece-priced product must not set pricePerKg")
		}
	default:
		return fmt.Errorf("unknown unit %q", p.Unit)
	}
	return nil
}

// Product is a catalog entry. Created and edited by the shop's data-entry
// process; read-only to this service.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Price       Price              `bson:"price,inline" json:"price"`
	ImageURL    string             `bson:"imageURL" json:"imageURL"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
