package controllers

import (
	"context"
	"net/http"

	"bismi-shop/models"
)

// ProductCatalog is the read-only slice of the catalog this service needs.
// The catalog itself is maintained by an out-of-scope data-entry process.
type ProductCatalog interface {
	FetchActive(ctx context.Context, category string) ([]models.Product, error)
}

// ProductController serves the public catalog
type ProductController struct {
	Products ProductCatalog
}

// NewProductController creates a new ProductController
func NewProductController(products ProductCatalog) *ProductController {
	return &ProductController{Products: products}
}

// GetProducts lists active products, optionally filtered by category,
// sorted by name
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := pc.Products.FetchActive(r.Context(), category)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Unable to load products. Please try again.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}
