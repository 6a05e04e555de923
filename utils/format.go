package utils

import (
	"fmt"
	"net/url"
)

// FormatCurrency renders an amount as Indian Rupees.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// BuildWhatsAppURL builds a wa.me deep link pre-filled with a human-readable
// order summary, used for manual order confirmation over chat. Not an API
// call, just URL construction from order data.
func BuildWhatsAppURL(whatsappNumber, orderID, customerName string) string {
	message := fmt.Sprintf(
		"Hi! I just placed order #%s. My name is %s. Please confirm.",
		shortID(orderID), customerName,
	)
	return fmt.Sprintf("https://wa.me/%s?text=%s", whatsappNumber, url.QueryEscape(message))
}
