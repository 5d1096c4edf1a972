package cart

import (
	"fmt"

	"vendora/apperr"
	"vendora/models"
	"vendora/utils"
)

// StockAvailable checks a requested quantity against a product lookup
// result. A failed lookup means the product is gone from the catalog, not
// that the check can be skipped.
func StockAvailable(product models.Product, lookupErr error, qty int) error {
	if lookupErr != nil {
		return fmt.Errorf("product lookup: %w", apperr.ErrNotFound)
	}
	if qty > product.Quantity {
		return fmt.Errorf("only %d of %q in stock: %w",
			product.Quantity, product.Name, apperr.ErrInsufficientStock)
	}
	return nil
}

// UnitPrice is the price a cart line is charged at: the sale price when one
// is set, the regular price otherwise.
func UnitPrice(item models.CartItem) float64 {
	if item.SalePrice > 0 && item.SalePrice < item.ProductPrice {
		return item.SalePrice
	}
	return item.ProductPrice
}

// Recompute derives TotalAmount and TotalItems from the line items. Every
// persist goes through this so the stored totals can never drift from the
// lines.
func Recompute(c *models.Cart) {
	var amount float64
	var count int
	for i := range c.Items {
		c.Items[i].Price = UnitPrice(c.Items[i])
		amount += c.Items[i].Price * float64(c.Items[i].Quantity)
		count += c.Items[i].Quantity
	}
	c.TotalAmount = utils.Round2(amount)
	c.TotalItems = count
}

// UpsertItem adds the item or, when the product is already in the cart,
// replaces the line with the combined quantity.
func UpsertItem(items []models.CartItem, item models.CartItem) []models.CartItem {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			item.Quantity += items[i].Quantity
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// SetQuantity pins a line to an exact quantity; zero or below removes it.
// Reports whether the product was present.
func SetQuantity(items []models.CartItem, productID string, qty int) ([]models.CartItem, bool) {
	for i := range items {
		if items[i].ProductID == productID {
			if qty <= 0 {
				return append(items[:i], items[i+1:]...), true
			}
			items[i].Quantity = qty
			return items, true
		}
	}
	return items, false
}

// RemoveItem drops a line, reporting whether it existed.
func RemoveItem(items []models.CartItem, productID string) ([]models.CartItem, bool) {
	for i := range items {
		if items[i].ProductID == productID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// MergeItems folds a guest cart into a user cart. Lines for the same
// product are combined by summing quantities; the user cart's price
// snapshot wins on conflict.
func MergeItems(into, from []models.CartItem) []models.CartItem {
	for _, item := range from {
		merged := false
		for i := range into {
			if into[i].ProductID == item.ProductID {
				into[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			into = append(into, item)
		}
	}
	return into
}
