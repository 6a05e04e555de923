package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bismi-shop/models"
)

// DefaultTTL keeps abandoned carts around long enough to survive reloads and
// return visits without accumulating forever.
const DefaultTTL = 7 * 24 * time.Hour

// RedisPort persists one session's cart as a JSON document keyed by the
// shopper's session id.
type RedisPort struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisPort wires a session's cart to Redis. A zero ttl means DefaultTTL.
func NewRedisPort(client *redis.Client, sessionID string, ttl time.Duration) *RedisPort {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPort{client: client, sessionID: sessionID, ttl: ttl}
}

func (p *RedisPort) key() string {
	return "cart:" + p.sessionID
}

// Load returns the stored lines, or nil when nothing (or garbage) is stored.
// Corrupted payloads are treated as an empty cart, matching the contract
// that a cart never blocks startup.
func (p *RedisPort) Load(ctx context.Context) ([]models.CartLine, error) {
	raw, err := p.client.Get(ctx, p.key()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, nil
	}
	return lines, nil
}

// Save replaces the stored collection with the given lines and refreshes the
// TTL. An empty cart is deleted rather than stored.
func (p *RedisPort) Save(ctx context.Context, lines []models.CartLine) error {
	if len(lines) == 0 {
		if err := p.client.Del(ctx, p.key()).Err(); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := p.client.Set(ctx, p.key(), payload, p.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
