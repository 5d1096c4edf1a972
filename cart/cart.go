package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vendora/apperr"
	"vendora/db"
	"vendora/identity"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Load fetches the owner's cart, returning an empty cart rather than an
// error when none exists yet.
func Load(ctx context.Context, who identity.Identity) (models.Cart, error) {
	var c models.Cart
	err := db.CartCollection.FindOne(ctx, who.Filter()).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Cart{
			UserID:    who.UserID(),
			SessionID: who.SessionID(),
			Items:     []models.CartItem{},
		}, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to load cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

// save upserts the cart document for its owner, recomputing totals first.
func save(ctx context.Context, who identity.Identity, c *models.Cart) error {
	Recompute(c)
	now := time.Now()

	_, err := db.CartCollection.UpdateOne(ctx,
		who.Filter(),
		bson.M{
			"$set": bson.M{
				"items":       c.Items,
				"totalAmount": c.TotalAmount,
				"totalItems":  c.TotalItems,
				"updatedAt":   now,
			},
			"$setOnInsert": mergeOwner(who.Owner(), bson.M{"createdAt": now}),
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func mergeOwner(owner, extra bson.M) bson.M {
	for k, v := range owner {
		extra[k] = v
	}
	return extra
}

// GetCart returns the caller's cart, creating nothing.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No cart identity")
		return
	}

	c, err := Load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch cart", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"cart":    c,
	})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddToCart puts a published product in the cart. The stock check covers
// the combined quantity so repeatedly adding cannot exceed what is on hand;
// placement re-validates with the atomic decrement regardless.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No cart identity")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(),
		bson.M{"productid": req.ProductID, "isPublished": true}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	c, err := Load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch cart", err)
		return
	}

	inCart := 0
	for _, item := range c.Items {
		if item.ProductID == req.ProductID {
			inCart = item.Quantity
		}
	}
	if inCart+req.Quantity > product.Quantity {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Only %d of %q in stock", product.Quantity, product.Name))
		return
	}

	c.Items = UpsertItem(c.Items, models.CartItem{
		ProductID:    product.ProductID,
		Name:         product.Name,
		Image:        product.MainImage,
		Quantity:     req.Quantity,
		SalePrice:    product.SalePrice,
		ProductPrice: product.ProductPrice,
	})

	if err := save(r.Context(), who, &c); err != nil {
		utils.RespondWithInternalError(w, "Failed to update cart", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Item added to cart",
		"cart":    c,
	})
}

type updateItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItem sets an exact line quantity; zero removes the line.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No cart identity")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	c, err := Load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch cart", err)
		return
	}

	if req.Quantity > 0 {
		var product models.Product
		lookupErr := db.ProductCollection.FindOne(r.Context(),
			bson.M{"productid": req.ProductID}).Decode(&product)
		if err := StockAvailable(product, lookupErr, req.Quantity); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				utils.RespondWithError(w, http.StatusNotFound, "Product not found")
				return
			}
			utils.RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Only %d of %q in stock", product.Quantity, product.Name))
			return
		}
	}

	items, found := SetQuantity(c.Items, req.ProductID, req.Quantity)
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}
	c.Items = items

	if err := save(r.Context(), who, &c); err != nil {
		utils.RespondWithInternalError(w, "Failed to update cart", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Cart updated",
		"cart":    c,
	})
}

// RemoveFromCart drops a single line.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No cart identity")
		return
	}

	c, err := Load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch cart", err)
		return
	}

	items, found := RemoveItem(c.Items, ps.ByName("productId"))
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}
	c.Items = items

	if err := save(r.Context(), who, &c); err != nil {
		utils.RespondWithInternalError(w, "Failed to update cart", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Item removed from cart",
		"cart":    c,
	})
}

// ClearCart empties the cart but keeps the document.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No cart identity")
		return
	}

	c, err := Load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch cart", err)
		return
	}
	c.Items = []models.CartItem{}

	if err := save(r.Context(), who, &c); err != nil {
		utils.RespondWithInternalError(w, "Failed to clear cart", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Cart cleared",
		"cart":    c,
	})
}

// Clear empties the owner's persisted cart; the order workflow calls this
// after a successful cart-mode placement.
func Clear(ctx context.Context, who identity.Identity) error {
	c := models.Cart{Items: []models.CartItem{}}
	return save(ctx, who, &c)
}

type mergeRequest struct {
	SessionID string `json:"sessionId"`
}

// MergeCart folds a guest session cart into the authenticated user's cart
// after login, then deletes the session cart.
func MergeCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A session id is required")
		return
	}

	userIdent := identity.User(userID)
	guestIdent := identity.Session(req.SessionID)

	guest, err := Load(r.Context(), guestIdent)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to merge carts", err)
		return
	}

	c, err := Load(r.Context(), userIdent)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to merge carts", err)
		return
	}

	c.Items = MergeItems(c.Items, guest.Items)

	if err := save(r.Context(), userIdent, &c); err != nil {
		utils.RespondWithInternalError(w, "Failed to merge carts", err)
		return
	}

	if _, err := db.CartCollection.DeleteOne(r.Context(), guestIdent.Filter()); err != nil {
		utils.RespondWithInternalError(w, "Failed to merge carts", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Carts merged",
		"cart":    c,
	})
}
