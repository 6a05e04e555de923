package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bismi-shop/lifecycle"
	"bismi-shop/models"
)

func seedOrders(t *testing.T, s *MemoryOrders, n int, base time.Time) []models.Order {
	t.Helper()
	ctx := context.Background()
	out := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		o := &models.Order{
			CustomerName:     fmt.Sprintf("Customer %02d", i),
			Mobile:           "9876543210",
			Status:           models.StatusPending,
			TotalAmount:      200,
			IdempotencyToken: fmt.Sprintf("token-%02d", i),
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Insert(ctx, o))
		out = append(out, *o)
	}
	return out
}

func TestInsertRejectsDuplicateToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()

	first := &models.Order{IdempotencyToken: "tok", CreatedAt: time.Now()}
	require.NoError(t, s.Insert(ctx, first))
	assert.False(t, first.ID.IsZero())

	err := s.Insert(ctx, &models.Order{IdempotencyToken: "tok", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestFindByToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	seedOrders(t, s, 3, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	found, err := s.FindByToken(ctx, "token-01")
	require.NoError(t, err)
	assert.Equal(t, "Customer 01", found.CustomerName)

	_, err = s.FindByToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	seeded := seedOrders(t, s, 1, time.Now())

	found, err := s.Get(ctx, seeded[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, seeded[0].ID, found.ID)

	_, err = s.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestByMobile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	seeded := seedOrders(t, s, 5, base)

	latest, err := s.LatestByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, seeded[4].ID, latest.ID)

	_, err = s.LatestByMobile(ctx, "9000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	seeded := seedOrders(t, s, 25, base)

	var seen []primitive.ObjectID
	cursor := ""
	pages := 0
	for {
		page, next, err := s.List(ctx, ListFilter{Limit: 10, After: cursor})
		require.NoError(t, err)
		pages++
		for _, o := range page {
			seen = append(seen, o.ID)
		}
		if next == "" || len(page) == 0 {
			break
		}
		cursor = next
	}

	require.Len(t, seen, 25)
	assert.GreaterOrEqual(t, pages, 3)

	// newest first, no duplicates across pages
	assert.Equal(t, seeded[24].ID, seen[0])
	assert.Equal(t, seeded[0].ID, seen[24])
	unique := map[primitive.ObjectID]bool{}
	for _, id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 25)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	seeded := seedOrders(t, s, 4, base)

	tr := lifecycle.Default()
	_, err := s.UpdateStatus(ctx, seeded[0].ID.Hex(), models.StatusAccepted, tr)
	require.NoError(t, err)

	other := &models.Order{
		Mobile:           "9111111111",
		Status:           models.StatusPending,
		IdempotencyToken: "token-other",
		CreatedAt:        base.Add(time.Hour),
	}
	require.NoError(t, s.Insert(ctx, other))

	accepted, _, err := s.List(ctx, ListFilter{Status: models.StatusAccepted, Limit: 50})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, seeded[0].ID, accepted[0].ID)

	byMobile, _, err := s.List(ctx, ListFilter{Mobile: "9111111111", Limit: 50})
	require.NoError(t, err)
	require.Len(t, byMobile, 1)
	assert.Equal(t, other.ID, byMobile[0].ID)
}

func TestListRejectsBadCursor(t *testing.T) {
	s := NewMemoryOrders()
	_, _, err := s.List(context.Background(), ListFilter{After: "not-base64!!"})
	assert.Error(t, err)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	seeded := seedOrders(t, s, 1, time.Now().UTC())
	tr := lifecycle.Default()
	id := seeded[0].ID.Hex()

	updated, err := s.UpdateStatus(ctx, id, models.StatusAccepted, tr)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	// accepted cannot go back to pending
	_, err = s.UpdateStatus(ctx, id, models.StatusPending, tr)
	var te *lifecycle.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusAccepted, te.From)

	_, err = s.UpdateStatus(ctx, id, models.Status("weighed"), tr)
	assert.Error(t, err)

	_, err = s.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.StatusAccepted, tr)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountToday(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOrders()
	now := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	seedOrders(t, s, 3, now.Add(-2*time.Hour))
	yesterday := &models.Order{
		Mobile:           "9876543210",
		Status:           models.StatusDelivered,
		IdempotencyToken: "token-old",
		CreatedAt:        now.Add(-30 * time.Hour),
	}
	require.NoError(t, s.Insert(ctx, yesterday))

	counts, err := s.CountToday(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 3, counts.ByStatus[models.StatusPending])
	assert.Zero(t, counts.ByStatus[models.StatusDelivered])
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, 6, 1, 23, 59, 59, 0, loc)
	start := StartOfDay(at)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), start)
}

func TestCursorRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 6, 1, 9, 30, 0, 123456789, time.UTC)

	gotAt, gotID, err := decodeCursor(encodeCursor(at, id))
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, id, gotID)
}

func TestMemoryProductsFetchActive(t *testing.T) {
	s := NewMemoryProducts(
		models.Product{Name: "mutton curry cut", Category: "mutton", IsActive: true},
		models.Product{Name: "Chicken Breast", Category: "chicken", IsActive: true},
		models.Product{Name: "Beef (discontinued)", Category: "beef", IsActive: false},
	)

	all, err := s.FetchActive(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Chicken Breast", all[0].Name)

	chicken, err := s.FetchActive(context.Background(), "chicken")
	require.NoError(t, err)
	require.Len(t, chicken, 1)
}
