// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"bismi-shop/checkout"
	"bismi-shop/models"
	"bismi-shop/store"
	"bismi-shop/utils"
)

// OrderReader is the customer-facing slice of order persistence.
type OrderReader interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	LatestByMobile(ctx context.Context, mobile string) (*models.Order, error)
}

// OrderController handles order submission, confirmation, and tracking
type OrderController struct {
	Checkout       *checkout.Service
	Orders         OrderReader
	Carts          *CartController
	Email          *utils.EmailService
	WhatsAppNumber string
}

// NewOrderController creates a new OrderController
func NewOrderController(svc *checkout.Service, orders OrderReader, carts *CartController, email *utils.EmailService, whatsappNumber string) *OrderController {
	return &OrderController{
		Checkout:       svc,
		Orders:         orders,
		Carts:          carts,
		Email:          email,
		WhatsAppNumber: whatsappNumber,
	}
}

type submitOrderRequest struct {
	checkout.Input
	IdempotencyToken string `json:"idempotencyToken"`
}

type orderResponse struct {
	Order       *models.Order `json:"order"`
	WhatsAppURL string        `json:"whatsappUrl"`
	// NextIdempotencyToken is minted only after a confirmed write; the
	// client uses it for its next checkout attempt.
	NextIdempotencyToken string `json:"nextIdempotencyToken,omitempty"`
}

// SubmitOrder places an order from the session's cart, exactly once per
// idempotency token
func (oc *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	cartStore, _ := oc.Carts.storeFor(w, r)
	req.Input.Lines = cartStore.Lines()

	order, created, err := oc.Checkout.SubmitOrder(r.Context(), req.Input, req.IdempotencyToken)
	if err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": ve.Fields})
			return
		}
		respondError(w, http.StatusServiceUnavailable,
			"Something went wrong. Please check your connection and try again.")
		return
	}

	resp := orderResponse{
		Order:       order,
		WhatsAppURL: utils.BuildWhatsAppURL(oc.WhatsAppNumber, order.ID.Hex(), order.CustomerName),
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		// The write is confirmed: clear the cart and hand out a fresh token
		// for any subsequent checkout. A failed cart clear does not undo the
		// order; the next cart read simply still shows the old lines.
		if cerr := cartStore.Clear(r.Context()); cerr != nil {
			log.Printf("cart clear after order %s failed: %v", order.ID.Hex(), cerr)
		}
		resp.NextIdempotencyToken = checkout.NewIdempotencyToken()
		go oc.Email.NotifyNewOrder(order)
	}
	respondJSON(w, status, resp)
}

// GetOrder returns one order for the confirmation page
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := oc.Orders.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Could not fetch order. Please try again.")
		return
	}

	respondJSON(w, http.StatusOK, orderResponse{
		Order:       order,
		WhatsAppURL: utils.BuildWhatsAppURL(oc.WhatsAppNumber, order.ID.Hex(), order.CustomerName),
	})
}

// TrackOrder returns the most recent order for a mobile number
func (oc *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	mobile := strings.TrimSpace(r.URL.Query().Get("mobile"))
	if !checkout.ValidateMobile(mobile) {
		respondError(w, http.StatusBadRequest, "Please enter a valid 10-digit mobile number.")
		return
	}

	order, err := oc.Orders.LatestByMobile(r.Context(), mobile)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No recent orders found for this mobile number.")
		return
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Could not fetch order status. Please try again.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
