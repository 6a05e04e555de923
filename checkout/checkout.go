// Package checkout implements the idempotent order submission protocol:
// validate, look up a prior order with the same idempotency token, and only
// then create the order with price-locked item snapshots.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bismi-shop/config"
	"bismi-shop/lifecycle"
	"bismi-shop/models"
	"bismi-shop/pricing"
	"bismi-shop/store"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidateMobile checks an Indian mobile number: 10 digits, first digit 6–9.
func ValidateMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

// NewIdempotencyToken mints the opaque token for one checkout attempt. The
// caller keeps it across retries and replaces it only after a confirmed
// successful submission.
func NewIdempotencyToken() string {
	return uuid.NewString()
}

// OrderStore is the slice of order persistence SubmitOrder needs.
type OrderStore interface {
	// FindByToken returns store.ErrNotFound when no order carries the token.
	FindByToken(ctx context.Context, token string) (*models.Order, error)
	// Insert persists a new order, assigning its id. A unique-index clash on
	// the idempotency token surfaces as store.ErrDuplicateToken.
	Insert(ctx context.Context, order *models.Order) error
}

// Input is the checkout form plus the cart being bought.
type Input struct {
	CustomerName string              `json:"customerName"`
	Mobile       string              `json:"mobile"`
	DeliveryType models.DeliveryType `json:"deliveryType"`
	Address      string              `json:"address"`
	TimeSlot     string              `json:"timeSlot"`
	Lines        []models.CartLine   `json:"-"`
}

// ValidationError carries field-keyed, user-correctable messages. No write
// has happened when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "invalid checkout input: " + strings.Join(keys, ", ")
}

// ErrStoreUnavailable marks transient persistence failures. The caller's
// cart and token are untouched, so the identical submission can be retried.
var ErrStoreUnavailable = errors.New("order store unavailable")

// Service runs order submissions against the shop's configured rules.
type Service struct {
	Orders      OrderStore
	Delivery    config.DeliveryPolicy
	Minimum     float64
	Slots       []string
	Transitions lifecycle.Transitions
	Now         func() time.Time
}

// NewService wires a Service with server-assigned timestamps from time.Now.
func NewService(orders OrderStore, cfg *config.Config, transitions lifecycle.Transitions) *Service {
	return &Service{
		Orders:      orders,
		Delivery:    cfg.Delivery,
		Minimum:     cfg.MinimumOrderAmount,
		Slots:       cfg.DeliverySlots,
		Transitions: transitions,
		Now:         time.Now,
	}
}

// Validate checks every field and returns the full error map, or nil.
func (s *Service) Validate(in Input) map[string]string {
	errs := map[string]string{}

	if name := strings.TrimSpace(in.CustomerName); name == "" {
		errs["customerName"] = "Name is required"
	} else if len([]rune(name)) < 2 {
		errs["customerName"] = "Name is too short"
	}

	if mobile := strings.TrimSpace(in.Mobile); mobile == "" {
		errs["mobile"] = "Mobile number is required"
	} else if !ValidateMobile(mobile) {
		errs["mobile"] = "Enter a valid 10-digit mobile number"
	}

	switch in.DeliveryType {
	case models.DeliveryTypeDelivery:
		if strings.TrimSpace(in.Address) == "" {
			errs["address"] = "Address is required for delivery"
		}
		if in.TimeSlot != "" && !s.validSlot(in.TimeSlot) {
			errs["timeSlot"] = "Choose one of the available delivery slots"
		}
	case models.DeliveryTypePickup:
		if in.TimeSlot != "" {
			errs["timeSlot"] = "Time slots apply to delivery orders only"
		}
	default:
		errs["deliveryType"] = "Choose delivery or pickup"
	}

	if len(in.Lines) == 0 {
		errs["cart"] = "Your cart is empty"
	}
	for _, line := range in.Lines {
		if !pricing.ValidateLineQuantity(line) || line.UnitPrice <= 0 {
			errs["cart"] = "Cart contains an invalid item"
			break
		}
	}

	if _, ok := errs["cart"]; !ok {
		subtotal := pricing.CartSubtotal(in.Lines)
		if pricing.IsBelowMinimumOrder(subtotal, s.Minimum) {
			errs["subtotal"] = fmt.Sprintf("Minimum order amount is ₹%.2f", s.Minimum)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Service) validSlot(slot string) bool {
	for _, known := range s.Slots {
		if known == slot {
			return true
		}
	}
	return false
}

// SubmitOrder creates exactly one order per distinct idempotency token.
// The returned bool is true when this call created the order.
//
// A resubmission with an already-used token is not an error: the existing
// order is returned unchanged. Transient store failures come back wrapped in
// ErrStoreUnavailable with nothing written, so the caller retries with the
// same token and lands on the duplicate check.
func (s *Service) SubmitOrder(ctx context.Context, in Input, token string) (*models.Order, bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, false, &ValidationError{Fields: map[string]string{
			"idempotencyToken": "Missing idempotency token",
		}}
	}

	// Double-submit from a slow network or repeated navigation resolves to
	// the order the first submission created. The lookup runs before input
	// validation: a success whose response was lost already cleared the cart,
	// and the retry must return the existing order, not fail validation
	// against the now-empty cart.
	existing, err := s.Orders.FindByToken(ctx, token)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if fields := s.Validate(in); fields != nil {
		return nil, false, &ValidationError{Fields: fields}
	}

	order := s.buildOrder(in, token)
	if err := s.Orders.Insert(ctx, order); err != nil {
		if errors.Is(err, store.ErrDuplicateToken) {
			// Lost the race against a concurrent submission carrying the
			// same token; the winner's order is the order.
			if winner, ferr := s.Orders.FindByToken(ctx, token); ferr == nil {
				return winner, false, nil
			}
			return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return order, true, nil
}

// buildOrder locks unit prices and computes every money field at this
// instant; nothing is ever recomputed from live catalog data later.
func (s *Service) buildOrder(in Input, token string) *models.Order {
	items := make([]models.OrderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		items = append(items, models.OrderItem{
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			Unit:              line.Unit,
			Kg:                line.Kg,
			Pieces:            line.Pieces,
			UnitPrice:         line.UnitPrice,
			Subtotal:          pricing.RoundMoney(pricing.LineSubtotal(line)),
			CuttingPreference: line.CuttingPreference,
		})
	}

	subtotal := pricing.RoundMoney(pricing.CartSubtotal(in.Lines))
	var deliveryCharge float64
	address := ""
	if in.DeliveryType == models.DeliveryTypeDelivery {
		deliveryCharge = pricing.RoundMoney(pricing.ComputeDeliveryCharge(s.Delivery, subtotal))
		address = strings.TrimSpace(in.Address)
	}

	now := s.Now().UTC()
	return &models.Order{
		CustomerName:     strings.TrimSpace(in.CustomerName),
		Mobile:           strings.TrimSpace(in.Mobile),
		Items:            items,
		Subtotal:         subtotal,
		DeliveryCharge:   deliveryCharge,
		TotalAmount:      pricing.RoundMoney(subtotal + deliveryCharge),
		DeliveryType:     in.DeliveryType,
		Address:          address,
		TimeSlot:         in.TimeSlot,
		Status:           s.Transitions.Initial(),
		IdempotencyToken: token,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
