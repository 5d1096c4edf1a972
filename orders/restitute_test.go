package orders

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"vendora/apperr"
	"vendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubIncrement(t *testing.T, fn func(ctx context.Context, productID string, qty int) error) {
	t.Helper()
	orig := incrementStock
	incrementStock = fn
	t.Cleanup(func() { incrementStock = orig })
}

func TestRestituteReturnsAllLines(t *testing.T) {
	returned := map[string]int{}
	stubIncrement(t, func(_ context.Context, productID string, qty int) error {
		returned[productID] += qty
		return nil
	})

	err := restitute(context.Background(), []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, returned)
}

func TestRestituteRecoversOnRetry(t *testing.T) {
	attempts := 0
	stubIncrement(t, func(_ context.Context, _ string, _ int) error {
		attempts++
		if attempts == 1 {
			return errors.New("connection reset")
		}
		return nil
	})

	err := restitute(context.Background(), []models.OrderItem{
		{ProductID: "p1", Quantity: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRestituteSurfacesInconsistencyAfterRetriesExhausted(t *testing.T) {
	calls := map[string]int{}
	stubIncrement(t, func(_ context.Context, productID string, _ int) error {
		calls[productID]++
		if productID == "p2" {
			return errors.New("connection reset")
		}
		return nil
	})

	err := restitute(context.Background(), []models.OrderItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInconsistency)
	// the inconsistency maps to a 500 at the handler boundary
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
	// healthy lines are still returned, failed ones get all attempts
	assert.Equal(t, 1, calls["p1"])
	assert.Equal(t, 3, calls["p2"])
}
