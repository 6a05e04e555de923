package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bismi-shop/models"
)

func TestDefaultTable(t *testing.T) {
	tr := Default()

	assert.Equal(t, models.StatusPending, tr.Initial())
	assert.True(t, tr.CanTransition(models.StatusPending, models.StatusAccepted))
	assert.True(t, tr.CanTransition(models.StatusPending, models.StatusCancelled))
	assert.True(t, tr.CanTransition(models.StatusAccepted, models.StatusDelivered))
	assert.True(t, tr.CanTransition(models.StatusAccepted, models.StatusCancelled))

	// no skipping and no leaving terminal states
	assert.False(t, tr.CanTransition(models.StatusPending, models.StatusDelivered))
	assert.False(t, tr.CanTransition(models.StatusDelivered, models.StatusPending))
	assert.False(t, tr.CanTransition(models.StatusCancelled, models.StatusAccepted))

	assert.True(t, tr.IsTerminal(models.StatusDelivered))
	assert.True(t, tr.IsTerminal(models.StatusCancelled))
	assert.False(t, tr.IsTerminal(models.StatusPending))
}

func TestCheckReturnsTypedError(t *testing.T) {
	tr := Default()

	require.NoError(t, tr.Check(models.StatusPending, models.StatusAccepted))

	err := tr.Check(models.StatusDelivered, models.StatusPending)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StatusDelivered, te.From)
	assert.Equal(t, models.StatusPending, te.To)
	assert.Equal(t, "illegal status transition delivered -> pending", te.Error())
}

func TestParseInsertsIntermediateState(t *testing.T) {
	tr, err := Parse("pending>confirmed|cancelled;confirmed>accepted|cancelled;accepted>delivered|cancelled")
	require.NoError(t, err)

	confirmed := models.Status("confirmed")
	assert.True(t, tr.CanTransition(models.StatusPending, confirmed))
	assert.False(t, tr.CanTransition(models.StatusPending, models.StatusAccepted))
	assert.True(t, tr.CanTransition(confirmed, models.StatusAccepted))

	// targets never listed as sources become terminal
	assert.True(t, tr.Known(models.StatusDelivered))
	assert.True(t, tr.IsTerminal(models.StatusDelivered))
}

func TestParseRejectsMalformedRules(t *testing.T) {
	_, err := Parse("pending-accepted")
	assert.Error(t, err)

	_, err = Parse(">accepted")
	assert.Error(t, err)

	_, err = Parse("  ;  ")
	assert.Error(t, err)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	tr, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), tr)

	tr, err = Load("pending>cancelled")
	require.NoError(t, err)
	assert.True(t, tr.CanTransition(models.StatusPending, models.StatusCancelled))
	assert.False(t, tr.Known(models.StatusAccepted))
}

func TestNextListsSuccessors(t *testing.T) {
	tr := Default()
	assert.ElementsMatch(t,
		[]models.Status{models.StatusAccepted, models.StatusCancelled},
		tr.Next(models.StatusPending))
	assert.Empty(t, tr.Next(models.StatusDelivered))
}
