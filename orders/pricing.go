package orders

import (
	"os"
	"strconv"

	"vendora/models"
	"vendora/utils"
)

// Pricing is the charge breakdown for an order. All fields are rounded to
// two decimals.
type Pricing struct {
	ItemsPrice    float64
	ShippingPrice float64
	TaxPrice      float64
	TotalPrice    float64
}

const (
	defaultFreeShippingOver = 500.0
	defaultFlatShipping     = 50.0
	defaultTaxRate          = 0.10
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// ComputePricing derives shipping, tax and total from the items subtotal.
// Shipping is free above the threshold, a flat fee below; tax applies to
// the items subtotal only.
func ComputePricing(itemsPrice float64) Pricing {
	itemsPrice = utils.Round2(itemsPrice)

	shipping := envFloat("SHIPPING_FLAT_FEE", defaultFlatShipping)
	if itemsPrice > envFloat("FREE_SHIPPING_OVER", defaultFreeShippingOver) {
		shipping = 0
	}

	tax := utils.Round2(itemsPrice * envFloat("TAX_RATE", defaultTaxRate))

	return Pricing{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    utils.Round2(itemsPrice + shipping + tax),
	}
}

// CanCancel reports whether an order in the given status may still be
// cancelled. Delivered and cancelled are terminal.
func CanCancel(status string) bool {
	switch status {
	case models.OrderDelivered, models.OrderCancelled:
		return false
	}
	return true
}

// validStatuses is the set accepted by the admin status update endpoint.
var validStatuses = map[string]bool{
	models.OrderPending:    true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}
