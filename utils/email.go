// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"bismi-shop/models"
)

// EmailService notifies the shop owner about new orders using Postmark.
// It is an auxiliary channel: every send failure is logged and swallowed so
// it can never block an order.
type EmailService struct {
	client *postmark.Client
	owner  string
}

// NewEmailService initializes the service. Returns nil when Postmark is not
// configured, which callers treat as "notifications off".
func NewEmailService(ownerEmail string) *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" || ownerEmail == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		owner:  ownerEmail,
	}
}

// NotifyNewOrder emails the owner a summary of a freshly placed order.
func (es *EmailService) NotifyNewOrder(order *models.Order) {
	if es == nil {
		return
	}
	subject := fmt.Sprintf("New order #%s from %s", shortID(order.ID.Hex()), order.CustomerName)
	body := fmt.Sprintf(
		"New order from %s (+91 %s)\n\nItems: %d\nTotal: %s\nType: %s\n",
		order.CustomerName, order.Mobile, len(order.Items),
		FormatCurrency(order.TotalAmount), order.DeliveryType,
	)
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       es.owner,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		log.Printf("owner notification failed for order %s: %v", order.ID.Hex(), err)
	}
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
