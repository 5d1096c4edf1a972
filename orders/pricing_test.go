package orders

import (
	"testing"

	"vendora/models"

	"github.com/stretchr/testify/assert"
)

func TestComputePricingFreeShippingAboveThreshold(t *testing.T) {
	p := ComputePricing(600)

	assert.Equal(t, 600.0, p.ItemsPrice)
	assert.Equal(t, 0.0, p.ShippingPrice)
	assert.Equal(t, 60.0, p.TaxPrice)
	assert.Equal(t, 660.0, p.TotalPrice)
}

func TestComputePricingFlatShippingBelowThreshold(t *testing.T) {
	p := ComputePricing(100)

	assert.Equal(t, 100.0, p.ItemsPrice)
	assert.Equal(t, 50.0, p.ShippingPrice)
	assert.Equal(t, 10.0, p.TaxPrice)
	assert.Equal(t, 160.0, p.TotalPrice)
}

func TestComputePricingThresholdIsExclusive(t *testing.T) {
	// exactly at the threshold still pays shipping
	p := ComputePricing(500)
	assert.Equal(t, 50.0, p.ShippingPrice)

	p = ComputePricing(500.01)
	assert.Equal(t, 0.0, p.ShippingPrice)
}

func TestComputePricingRoundsTax(t *testing.T) {
	p := ComputePricing(19.99)

	assert.Equal(t, 2.0, p.TaxPrice)
	assert.Equal(t, 71.99, p.TotalPrice)
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(models.OrderPending))
	assert.True(t, CanCancel(models.OrderProcessing))
	assert.True(t, CanCancel(models.OrderShipped))
	assert.False(t, CanCancel(models.OrderDelivered))
	assert.False(t, CanCancel(models.OrderCancelled))
}
