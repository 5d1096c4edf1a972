package cart

import (
	"errors"
	"testing"

	"vendora/apperr"
	"vendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, qty int, productPrice, salePrice float64) models.CartItem {
	return models.CartItem{
		ProductID:    id,
		Name:         "item " + id,
		Quantity:     qty,
		ProductPrice: productPrice,
		SalePrice:    salePrice,
	}
}

func TestUnitPricePrefersSalePrice(t *testing.T) {
	assert.Equal(t, 80.0, UnitPrice(item("p1", 1, 100, 80)))
	assert.Equal(t, 100.0, UnitPrice(item("p1", 1, 100, 0)))
	// a "sale" price at or above the regular price is ignored
	assert.Equal(t, 100.0, UnitPrice(item("p1", 1, 100, 100)))
	assert.Equal(t, 100.0, UnitPrice(item("p1", 1, 100, 120)))
}

func TestRecomputeDerivesTotalsFromLines(t *testing.T) {
	c := models.Cart{Items: []models.CartItem{
		item("p1", 2, 100, 80),
		item("p2", 3, 19.99, 0),
	}}

	Recompute(&c)

	assert.Equal(t, 219.97, c.TotalAmount)
	assert.Equal(t, 5, c.TotalItems)
	assert.Equal(t, 80.0, c.Items[0].Price)
	assert.Equal(t, 19.99, c.Items[1].Price)
}

func TestRecomputeEmptyCart(t *testing.T) {
	c := models.Cart{Items: []models.CartItem{}}
	Recompute(&c)
	assert.Zero(t, c.TotalAmount)
	assert.Zero(t, c.TotalItems)
}

func TestRecomputeRoundsToTwoDecimals(t *testing.T) {
	c := models.Cart{Items: []models.CartItem{
		item("p1", 3, 0.1, 0),
	}}
	Recompute(&c)
	assert.Equal(t, 0.3, c.TotalAmount)
}

func TestUpsertItemCombinesQuantities(t *testing.T) {
	items := []models.CartItem{item("p1", 2, 100, 0)}

	items = UpsertItem(items, item("p1", 3, 100, 0))
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	items = UpsertItem(items, item("p2", 1, 50, 0))
	require.Len(t, items, 2)
}

func TestSetQuantity(t *testing.T) {
	items := []models.CartItem{item("p1", 2, 100, 0), item("p2", 1, 50, 0)}

	updated, found := SetQuantity(items, "p1", 7)
	require.True(t, found)
	assert.Equal(t, 7, updated[0].Quantity)

	updated, found = SetQuantity(updated, "p2", 0)
	require.True(t, found)
	assert.Len(t, updated, 1)

	_, found = SetQuantity(updated, "missing", 3)
	assert.False(t, found)
}

func TestRemoveItem(t *testing.T) {
	items := []models.CartItem{item("p1", 2, 100, 0), item("p2", 1, 50, 0)}

	updated, found := RemoveItem(items, "p1")
	require.True(t, found)
	require.Len(t, updated, 1)
	assert.Equal(t, "p2", updated[0].ProductID)

	_, found = RemoveItem(updated, "p1")
	assert.False(t, found)
}

func TestMergeItemsSumsSharedLines(t *testing.T) {
	user := []models.CartItem{item("p1", 1, 100, 90), item("p2", 2, 50, 0)}
	guest := []models.CartItem{item("p1", 2, 100, 80), item("p3", 1, 25, 0)}

	merged := MergeItems(user, guest)

	require.Len(t, merged, 3)
	assert.Equal(t, 3, merged[0].Quantity)
	// the user cart's price snapshot wins for shared lines
	assert.Equal(t, 90.0, merged[0].SalePrice)
	assert.Equal(t, 2, merged[1].Quantity)
	assert.Equal(t, "p3", merged[2].ProductID)
}

func TestStockAvailable(t *testing.T) {
	product := models.Product{ProductID: "p1", Name: "Mug", Quantity: 5}

	assert.NoError(t, StockAvailable(product, nil, 5))
	assert.ErrorIs(t, StockAvailable(product, nil, 6), apperr.ErrInsufficientStock)

	// a failed lookup is a missing product, never a pass
	err := StockAvailable(models.Product{}, errors.New("mongo: no documents in result"), 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMergeItemsIntoEmptyCart(t *testing.T) {
	guest := []models.CartItem{item("p1", 2, 100, 0)}
	merged := MergeItems(nil, guest)
	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Quantity)
}
