package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bismi-shop/checkout"
	"bismi-shop/config"
	"bismi-shop/lifecycle"
	"bismi-shop/models"
	"bismi-shop/store"
)

func newOrderRouter(t *testing.T) (*mux.Router, *store.MemoryOrders) {
	t.Helper()
	orders := store.NewMemoryOrders()
	svc := &checkout.Service{
		Orders:      orders,
		Delivery:    config.DeliveryPolicy{Kind: config.DeliveryFlat, Fee: 30, FreeAbove: 1500},
		Minimum:     100,
		Slots:       []string{"Evening (4pm-7pm)"},
		Transitions: lifecycle.Default(),
		Now:         time.Now,
	}
	carts := NewCartController(nil)
	oc := NewOrderController(svc, orders, carts, nil, "919876543210")

	router := mux.NewRouter()
	router.HandleFunc("/cart/items", carts.AddItem).Methods("POST")
	router.HandleFunc("/orders", oc.SubmitOrder).Methods("POST")
	return router, orders
}

func addToCart(t *testing.T, router *mux.Router) string {
	t.Helper()
	line := models.CartLine{
		ProductID:   "p1",
		ProductName: "Chicken Breast",
		Unit:        models.UnitKg,
		Kg:          2,
		UnitPrice:   280,
	}
	body, err := json.Marshal(line)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/cart/items", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	session := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, session)
	return session
}

func postOrder(t *testing.T, router *mux.Router, session, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"customerName":     "Fathima",
		"mobile":           "9876543210",
		"deliveryType":     "delivery",
		"address":          "12 Beach Road, Kochi",
		"idempotencyToken": token,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader(body))
	req.Header.Set(SessionHeader, session)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// A success whose response never reached the client clears the server-side
// cart; the client's retry with the same token must still land on the order
// the first call created, not on cart validation.
func TestSubmitOrderRetryAfterLostResponse(t *testing.T) {
	router, _ := newOrderRouter(t)
	session := addToCart(t, router)
	token := checkout.NewIdempotencyToken()

	first := postOrder(t, router, session, token)
	require.Equal(t, http.StatusCreated, first.Code)
	var firstResp orderResponse
	require.NoError(t, json.NewDecoder(first.Body).Decode(&firstResp))
	require.NotNil(t, firstResp.Order)
	assert.NotEmpty(t, firstResp.NextIdempotencyToken)
	assert.Equal(t, 1070.0, firstResp.Order.TotalAmount)

	second := postOrder(t, router, session, token)
	require.Equal(t, http.StatusOK, second.Code)
	var secondResp orderResponse
	require.NoError(t, json.NewDecoder(second.Body).Decode(&secondResp))
	require.NotNil(t, secondResp.Order)
	assert.Equal(t, firstResp.Order.ID, secondResp.Order.ID)
	// no fresh token on a resubmission; the client rotates only after the
	// create it initiated
	assert.Empty(t, secondResp.NextIdempotencyToken)
}

func TestSubmitOrderEmptyCartWithFreshToken(t *testing.T) {
	router, _ := newOrderRouter(t)
	session := addToCart(t, router)

	first := postOrder(t, router, session, checkout.NewIdempotencyToken())
	require.Equal(t, http.StatusCreated, first.Code)

	// a genuinely new checkout against the now-empty cart still fails
	// validation
	rec := postOrder(t, router, session, checkout.NewIdempotencyToken())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Errors, "cart")
}
