package models

// CartLine is one entry in a shopper's cart. The unit price is captured when
// the product is added (price lock); later catalog price changes do not
// touch lines already in the cart. Quantity lives in Kg or Pieces depending
// on Unit.
type CartLine struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Unit        Unit    `json:"unit"`
	Kg          float64 `json:"kg,omitempty"`
	Pieces      int     `json:"pieces,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	// CuttingPreference applies to piece-priced products only,
	// e.g. "Whole (cleaned)" or "Curry cut".
	CuttingPreference string `json:"cuttingPreference,omitempty"`
	ImageURL          string `json:"imageURL,omitempty"`
}

// Quantity returns the live quantity field for the line's unit.
func (l CartLine) Quantity() float64 {
	if l.Unit == UnitPiece {
		return float64(l.Pieces)
	}
	return l.Kg
}
