package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is an order lifecycle state. The set is open: deployments may
// configure intermediate states (e.g. "confirmed") without touching code,
// so Status is a string type, not a closed enum.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// DeliveryType is how the customer receives the order.
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// OrderItem is a price-locked snapshot of a cart line at submission time.
// Subtotal is computed once, at order creation, and never recomputed from
// live catalog data.
type OrderItem struct {
	ProductID         string  `bson:"productId" json:"productId"`
	ProductName       string  `bson:"productName" json:"productName"`
	Unit              Unit    `bson:"unit" json:"unit"`
	Kg                float64 `bson:"kg,omitempty" json:"kg,omitempty"`
	Pieces            int     `bson:"pieces,omitempty" json:"pieces,omitempty"`
	UnitPrice         float64 `bson:"unitPrice" json:"unitPrice"`
	Subtotal          float64 `bson:"subtotal" json:"subtotal"`
	CuttingPreference string  `bson:"cuttingPreference,omitempty" json:"cuttingPreference,omitempty"`
}

// Order is a customer order. Created exactly once per idempotency token;
// after creation only Status and UpdatedAt ever change. Cancellation is a
// terminal status, never a delete.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerName     string             `bson:"customerName" json:"customerName"`
	Mobile           string             `bson:"mobile" json:"mobile"`
	Items            []OrderItem        `bson:"items" json:"items"`
	Subtotal         float64            `bson:"subtotal" json:"subtotal"`
	DeliveryCharge   float64            `bson:"deliveryCharge" json:"deliveryCharge"`
	TotalAmount      float64            `bson:"totalAmount" json:"totalAmount"`
	DeliveryType     DeliveryType       `bson:"deliveryType" json:"deliveryType"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	TimeSlot         string             `bson:"timeSlot,omitempty" json:"timeSlot,omitempty"`
	Status           Status             `bson:"status" json:"status"`
	IdempotencyToken string             `bson:"idempotencyToken" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
