package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStockAllowsExactStock(t *testing.T) {
	assert.NoError(t, checkStock(5, 0, 5))
}

func TestCheckStockRejectsOneBelowRequest(t *testing.T) {
	err := checkStock(4, 0, 5)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 0, stockErr.Held)
	assert.Equal(t, "Requested quantity 5 is not available", err.Error())
}

func TestCheckStockCountsHeldQuantityTowardRequest(t *testing.T) {
	assert.NoError(t, checkStock(6, 4, 2))

	err := checkStock(5, 4, 2)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 4, stockErr.Held)
	assert.Equal(t, "Requested quantity 6 is not available, you already have 4 in your basket", err.Error())
}

func TestInsufficientStockErrorMessageWithHeldQuantity(t *testing.T) {
	err := &InsufficientStockError{Requested: 6, Held: 4}

	assert.Equal(t, "Requested quantity 6 is not available, you already have 4 in your basket", err.Error())
}

func TestInsufficientStockErrorMessageForNewItem(t *testing.T) {
	err := &InsufficientStockError{Requested: 20}

	assert.Equal(t, "Requested quantity 20 is not available", err.Error())
}
