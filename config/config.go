// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DeliveryPolicyKind selects how the delivery charge is computed.
type DeliveryPolicyKind string

const (
	// DeliveryFree never charges for delivery.
	DeliveryFree DeliveryPolicyKind = "free"
	// DeliveryFlat charges a flat fee, waived above FreeAbove.
	DeliveryFlat DeliveryPolicyKind = "flat"
)

// DeliveryPolicy is the single configurable pricing policy for delivery.
// Both observed shop configurations (always free, flat fee waived above a
// threshold) are instances of this one parameter set.
type DeliveryPolicy struct {
	Kind      DeliveryPolicyKind
	Fee       float64
	FreeAbove float64
}

// Config holds the shop's business rules and service settings, loaded once at
// startup from environment variables.
type Config struct {
	ShopName       string
	WhatsAppNumber string // digits only, for wa.me links
	OwnerEmail     string

	MinimumOrderAmount float64
	Delivery           DeliveryPolicy
	DeliverySlots      []string

	AdminPageSize int64

	// StatusTransitions is the raw transition table, e.g.
	// "pending>accepted|cancelled;accepted>delivered|cancelled".
	// Empty means the default four-state table.
	StatusTransitions string

	MongoURI  string
	RedisURL  string
	JWTSecret string
	Port      string
}

// Load reads configuration from the environment. Defaults match the
// reference shop: ₹100 minimum order, free delivery, page size 15.
func Load() (*Config, error) {
	cfg := &Config{
		ShopName:       getEnv("SHOP_NAME", "Bismi Broilers"),
		WhatsAppNumber: getEnv("SHOP_WHATSAPP", "918681087082"),
		OwnerEmail:     os.Getenv("SHOP_OWNER_EMAIL"),

		MinimumOrderAmount: getEnvFloat("MINIMUM_ORDER_AMOUNT", 100),
		Delivery: DeliveryPolicy{
			Kind:      DeliveryPolicyKind(getEnv("DELIVERY_POLICY", string(DeliveryFree))),
			Fee:       getEnvFloat("DELIVERY_FEE", 0),
			FreeAbove: getEnvFloat("DELIVERY_FREE_ABOVE", 0),
		},
		DeliverySlots: splitList(getEnv("DELIVERY_SLOTS",
			"Morning (7AM – 10AM),Afternoon (12PM – 3PM),Evening (4PM – 7PM)")),

		AdminPageSize: getEnvInt("ADMIN_PAGE_SIZE", 15),

		StatusTransitions: os.Getenv("STATUS_TRANSITIONS"),

		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Port:      getEnv("PORT", "8000"),
	}

	switch cfg.Delivery.Kind {
	case DeliveryFree, DeliveryFlat:
	default:
		return nil, fmt.Errorf("unknown DELIVERY_POLICY %q", cfg.Delivery.Kind)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
