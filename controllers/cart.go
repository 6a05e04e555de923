package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"bismi-shop/cart"
	"bismi-shop/models"
)

// SessionHeader carries the shopper's cart session id. The server mints one
// on first contact and echoes it back; the client resends it so the cart
// survives page reloads on the same device.
const SessionHeader = "X-Cart-Session"

// CartController handles the shopping cart for anonymous shopper sessions.
type CartController struct {
	Redis *redis.Client

	// fallback ports keep carts in process memory when Redis is absent
	mu       sync.Mutex
	fallback map[string]*cart.MemoryPort
}

// NewCartController creates a new CartController. redisClient may be nil.
func NewCartController(redisClient *redis.Client) *CartController {
	return &CartController{
		Redis:    redisClient,
		fallback: make(map[string]*cart.MemoryPort),
	}
}

func (cc *CartController) portFor(sessionID string) cart.Port {
	if cc.Redis != nil {
		return cart.NewRedisPort(cc.Redis, sessionID, 0)
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	port, ok := cc.fallback[sessionID]
	if !ok {
		port = cart.NewMemoryPort()
		cc.fallback[sessionID] = port
	}
	return port
}

// storeFor resolves the session id (minting one if absent), sets the
// response header, and hydrates that session's cart.
func (cc *CartController) storeFor(w http.ResponseWriter, r *http.Request) (*cart.Store, string) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	w.Header().Set(SessionHeader, sessionID)
	return cart.NewStore(r.Context(), cc.portFor(sessionID)), sessionID
}

type cartResponse struct {
	SessionID string            `json:"sessionId"`
	Items     []models.CartLine `json:"items"`
	Subtotal  float64           `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func (cc *CartController) respondCart(w http.ResponseWriter, s *cart.Store, sessionID string) {
	respondJSON(w, http.StatusOK, cartResponse{
		SessionID: sessionID,
		Items:     s.Lines(),
		Subtotal:  s.Subtotal(),
		ItemCount: s.ItemCount(),
	})
}

// GetCart returns the session's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	s, sessionID := cc.storeFor(w, r)
	cc.respondCart(w, s, sessionID)
}

// AddItem adds a product to the cart, accumulating quantity when the product
// is already present
func (cc *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var line models.CartLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if line.ProductID == "" || line.UnitPrice <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid cart line")
		return
	}
	if line.Unit != models.UnitPiece && line.CuttingPreference != "" {
		respondError(w, http.StatusBadRequest, "Cutting preference applies to piece-priced products only")
		return
	}

	s, sessionID := cc.storeFor(w, r)
	if err := s.AddItem(r.Context(), line); err != nil {
		cc.cartError(w, err)
		return
	}
	cc.respondCart(w, s, sessionID)
}

// UpdateItem sets the quantity of an existing cart line
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	var body struct {
		Kg     float64 `json:"kg"`
		Pieces int     `json:"pieces"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	s, sessionID := cc.storeFor(w, r)
	if err := s.UpdateQuantity(r.Context(), productID, body.Kg, body.Pieces); err != nil {
		cc.cartError(w, err)
		return
	}
	cc.respondCart(w, s, sessionID)
}

// RemoveItem deletes a cart line
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	s, sessionID := cc.storeFor(w, r)
	if err := s.RemoveItem(r.Context(), productID); err != nil {
		cc.cartError(w, err)
		return
	}
	cc.respondCart(w, s, sessionID)
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, sessionID := cc.storeFor(w, r)
	if err := s.Clear(r.Context()); err != nil {
		cc.cartError(w, err)
		return
	}
	cc.respondCart(w, s, sessionID)
}

func (cc *CartController) cartError(w http.ResponseWriter, err error) {
	var qe *cart.QuantityError
	if errors.As(err, &qe) {
		respondError(w, http.StatusBadRequest, qe.Error())
		return
	}
	respondError(w, http.StatusServiceUnavailable, "Could not update cart. Please try again.")
}
