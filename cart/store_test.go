package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bismi-shop/models"
)

type brokenPort struct{}

func (brokenPort) Load(ctx context.Context) ([]models.CartLine, error) {
	return nil, errors.New("unreadable")
}
func (brokenPort) Save(ctx context.Context, lines []models.CartLine) error { return nil }

func TestStoreAddAndDerivedValues(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, NewMemoryPort())

	require.NoError(t, s.AddItem(ctx, kgLine("p1", 2)))
	require.NoError(t, s.AddItem(ctx, pieceLine("q1", 4)))

	assert.Equal(t, 2, s.ItemCount())
	assert.Equal(t, 1040.0, s.Subtotal()) // 2×280 + 4×120
}

func TestStoreRejectsBadQuantities(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, NewMemoryPort())

	var qe *QuantityError
	err := s.AddItem(ctx, kgLine("p1", 0.6))
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, models.UnitKg, qe.Unit)

	err = s.AddItem(ctx, pieceLine("q1", 0))
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, models.UnitPiece, qe.Unit)

	assert.Zero(t, s.ItemCount())
}

func TestStoreUpdateQuantityValidatesByUnit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, NewMemoryPort())
	require.NoError(t, s.AddItem(ctx, kgLine("p1", 1)))

	assert.Error(t, s.UpdateQuantity(ctx, "p1", 0.3, 0))
	require.NoError(t, s.UpdateQuantity(ctx, "p1", 3.75, 0))
	assert.Equal(t, 3.75, s.Lines()[0].Kg)

	// unknown product id: no-op, no error
	require.NoError(t, s.UpdateQuantity(ctx, "nope", 1, 0))
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	port := NewMemoryPort()

	s := NewStore(ctx, port)
	require.NoError(t, s.AddItem(ctx, kgLine("p1", 1.5)))

	reloaded := NewStore(ctx, port)
	require.Equal(t, 1, reloaded.ItemCount())
	assert.Equal(t, 1.5, reloaded.Lines()[0].Kg)
}

func TestStoreUnreadableStateStartsEmpty(t *testing.T) {
	s := NewStore(context.Background(), brokenPort{})
	assert.Zero(t, s.ItemCount())
}

func TestStoreKeepsStateOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	port := NewMemoryPort()
	s := NewStore(ctx, port)
	require.NoError(t, s.AddItem(ctx, kgLine("p1", 1)))

	port.FailSave = errors.New("redis down")
	err := s.AddItem(ctx, kgLine("p1", 1))
	require.Error(t, err)

	// the failed mutation did not land; the retry will
	assert.Equal(t, 1.0, s.Lines()[0].Kg)

	port.FailSave = nil
	require.NoError(t, s.AddItem(ctx, kgLine("p1", 1)))
	assert.Equal(t, 2.0, s.Lines()[0].Kg)
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	port := NewMemoryPort()
	s := NewStore(ctx, port)
	require.NoError(t, s.AddItem(ctx, kgLine("p1", 1)))
	require.NoError(t, s.Clear(ctx))

	assert.Zero(t, s.ItemCount())
	reloaded := NewStore(ctx, port)
	assert.Zero(t, reloaded.ItemCount())
}
