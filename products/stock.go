package products

import (
	"context"
	"fmt"

	"vendora/apperr"
	"vendora/db"

	"go.mongodb.org/mongo-driver/bson"
)

// DecrementStock atomically takes qty units off a product's stock. The
// filter includes the availability check, so the read and the write are a
// single document operation and two concurrent buyers can never both win
// the last unit.
func DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{
			"productid": productID,
			"quantity":  bson.M{"$gte": qty},
		},
		bson.M{"$inc": bson.M{"quantity": -qty}})
	if err != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", productID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, apperr.ErrInsufficientStock)
	}
	return nil
}

// IncrementStock returns qty units to a product's stock. Used to compensate
// a failed order and to restitute stock on cancellation.
func IncrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$inc": bson.M{"quantity": qty}})
	if err != nil {
		return fmt.Errorf("failed to increment stock for %s: %w", productID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
	}
	return nil
}
