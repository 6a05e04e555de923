package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bismi-shop/lifecycle"
	"bismi-shop/models"
	"bismi-shop/store"
)

// AdminOrders is the order persistence slice the admin surface needs.
type AdminOrders interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, f store.ListFilter) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, id string, to models.Status, t lifecycle.Transitions) (*models.Order, error)
	CountToday(ctx context.Context, now time.Time) (*store.StatusCounts, error)
}

// AdminController handles order fulfillment: listing, detail, and status
// transitions
type AdminController struct {
	Orders      AdminOrders
	Transitions lifecycle.Transitions
	PageSize    int64
}

// NewAdminController creates a new AdminController
func NewAdminController(orders AdminOrders, transitions lifecycle.Transitions, pageSize int64) *AdminController {
	return &AdminController{Orders: orders, Transitions: transitions, PageSize: pageSize}
}

// ListOrders pages orders newest first, filtered by exact status or mobile
// number. Status browsing and mobile search are one query contract.
func (ac *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := store.ListFilter{
		Mobile: q.Get("mobile"),
		After:  q.Get("cursor"),
		Limit:  ac.PageSize,
	}
	if status := q.Get("status"); status != "" && status != "all" {
		f.Status = models.Status(status)
		if !ac.Transitions.Known(f.Status) {
			respondError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.ParseInt(limit, 10, 64)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		f.Limit = n
	}

	orders, next, err := ac.Orders.List(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Could not load orders. Please try again.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":     orders,
		"nextCursor": next,
	})
}

// GetOrder returns one order with the legal next statuses for its detail view
func (ac *AdminController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := ac.Orders.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Could not fetch order. Please try again.")
		return
	}

	next := ac.Transitions.Next(order.Status)
	if next == nil {
		next = []models.Status{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order":        order,
		"nextStatuses": next,
	})
}

// UpdateStatus applies one status transition to an order
func (ac *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	order, err := ac.Orders.UpdateStatus(r.Context(), id, body.Status, ac.Transitions)
	if err != nil {
		var te *lifecycle.TransitionError
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "Order not found")
		case errors.As(err, &te):
			respondError(w, http.StatusConflict, te.Error())
		default:
			respondError(w, http.StatusServiceUnavailable, "Could not update order status. Please try again.")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

// Dashboard returns today's order counts by status
func (ac *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := ac.Orders.CountToday(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Could not load dashboard. Please try again.")
		return
	}
	respondJSON(w, http.StatusOK, counts)
}
