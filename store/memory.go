package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bismi-shop/lifecycle"
	"bismi-shop/models"
)

// MemoryOrders is an in-process order store with the same contract as
// MongoOrders, including token uniqueness. It backs the package tests.
type MemoryOrders struct {
	mu     sync.Mutex
	orders []*models.Order

	// FailInsert and FailFind, when set, are returned by the corresponding
	// operation. FailFindOnce fails a single FindByToken and clears itself;
	// tests use it to open the window where a duplicate check misses an
	// in-flight concurrent submission. All simulate a flaky store.
	FailInsert   error
	FailFind     error
	FailFindOnce error
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{}
}

func (s *MemoryOrders) FindByToken(ctx context.Context, token string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFind != nil {
		return nil, s.FailFind
	}
	if s.FailFindOnce != nil {
		err := s.FailFindOnce
		s.FailFindOnce = nil
		return nil, err
	}
	for _, o := range s.orders {
		if o.IdempotencyToken == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrders) Insert(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return s.FailInsert
	}
	for _, o := range s.orders {
		if o.IdempotencyToken == order.IdempotencyToken {
			return ErrDuplicateToken
		}
	}
	order.ID = primitive.NewObjectID()
	cp := *order
	s.orders = append(s.orders, &cp)
	return nil
}

func (s *MemoryOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID.Hex() == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrders) LatestByMobile(ctx context.Context, mobile string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Order
	for _, o := range s.orders {
		if o.Mobile != mobile {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryOrders) List(ctx context.Context, f ListFilter) ([]models.Order, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Mobile != "" && o.Mobile != f.Mobile {
			continue
		}
		matched = append(matched, *o)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	if f.After != "" {
		createdAt, id, err := decodeCursor(f.After)
		if err != nil {
			return nil, "", err
		}
		kept := matched[:0]
		for _, o := range matched {
			if o.CreatedAt.Before(createdAt) ||
				(o.CreatedAt.Equal(createdAt) && o.ID.Hex() < id.Hex()) {
				kept = append(kept, o)
			}
		}
		matched = kept
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 15
	}
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	next := ""
	if int64(len(matched)) == limit {
		last := matched[len(matched)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return matched, next, nil
}

func (s *MemoryOrders) UpdateStatus(ctx context.Context, id string, to models.Status, t lifecycle.Transitions) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID.Hex() != id {
			continue
		}
		if !t.Known(to) {
			return nil, &lifecycle.TransitionError{From: o.Status, To: to}
		}
		if err := t.Check(o.Status, to); err != nil {
			return nil, err
		}
		o.Status = to
		o.UpdatedAt = time.Now().UTC()
		cp := *o
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryOrders) CountToday(ctx context.Context, now time.Time) (*StatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := StartOfDay(now)
	counts := &StatusCounts{ByStatus: map[models.Status]int{}}
	for _, o := range s.orders {
		if o.CreatedAt.Before(start) {
			continue
		}
		counts.Total++
		counts.ByStatus[o.Status]++
	}
	return counts, nil
}

// MemoryProducts is an in-process catalog for tests.
type MemoryProducts struct {
	mu       sync.Mutex
	products []models.Product
}

func NewMemoryProducts(products ...models.Product) *MemoryProducts {
	return &MemoryProducts{products: products}
}

func (s *MemoryProducts) FetchActive(ctx context.Context, category string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}
