package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vendora/db"
	"vendora/identity"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func load(ctx context.Context, who identity.Identity) (models.Wishlist, error) {
	var wl models.Wishlist
	err := db.WishlistCollection.FindOne(ctx, who.Filter()).Decode(&wl)
	if err == mongo.ErrNoDocuments {
		return models.Wishlist{
			UserID:    who.UserID(),
			SessionID: who.SessionID(),
			Items:     []string{},
		}, nil
	}
	if err != nil {
		return wl, fmt.Errorf("failed to load wishlist: %w", err)
	}
	if wl.Items == nil {
		wl.Items = []string{}
	}
	return wl, nil
}

func save(ctx context.Context, who identity.Identity, items []string) error {
	now := time.Now()
	setOnInsert := bson.M{"createdAt": now}
	for k, v := range who.Owner() {
		setOnInsert[k] = v
	}

	_, err := db.WishlistCollection.UpdateOne(ctx,
		who.Filter(),
		bson.M{
			"$set":         bson.M{"items": items, "updatedAt": now},
			"$setOnInsert": setOnInsert,
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}

func contains(items []string, productID string) bool {
	for _, id := range items {
		if id == productID {
			return true
		}
	}
	return false
}

func remove(items []string, productID string) ([]string, bool) {
	for i, id := range items {
		if id == productID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// GetWishlist returns the caller's saved product ids along with the
// resolved published products, so the storefront needs no second round
// trip.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No wishlist identity")
		return
	}

	wl, err := load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
		return
	}

	products := []models.Product{}
	if len(wl.Items) > 0 {
		cursor, err := db.ProductCollection.Find(r.Context(), bson.M{
			"productid":   bson.M{"$in": wl.Items},
			"isPublished": true,
		})
		if err != nil {
			utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
			return
		}
		defer cursor.Close(r.Context())
		if err := cursor.All(r.Context(), &products); err != nil {
			utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"wishlist": wl,
		"products": products,
	})
}

type itemRequest struct {
	ProductID string `json:"productId"`
}

// AddToWishlist saves a product id; duplicates are rejected rather than
// silently ignored so the client can tell the user.
func AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No wishlist identity")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A product id is required")
		return
	}

	count, err := db.ProductCollection.CountDocuments(r.Context(),
		bson.M{"productid": req.ProductID, "isPublished": true})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to update wishlist", err)
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	wl, err := load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
		return
	}

	if contains(wl.Items, req.ProductID) {
		utils.RespondWithError(w, http.StatusBadRequest, "Product already in wishlist")
		return
	}
	wl.Items = append(wl.Items, req.ProductID)

	if err := save(r.Context(), who, wl.Items); err != nil {
		utils.RespondWithInternalError(w, "Failed to update wishlist", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Product added to wishlist",
		"wishlist": wl,
	})
}

// RemoveFromWishlist drops a saved product id.
func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No wishlist identity")
		return
	}

	wl, err := load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
		return
	}

	items, found := remove(wl.Items, ps.ByName("productId"))
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Product not in wishlist")
		return
	}
	wl.Items = items

	if err := save(r.Context(), who, wl.Items); err != nil {
		utils.RespondWithInternalError(w, "Failed to update wishlist", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Product removed from wishlist",
		"wishlist": wl,
	})
}

// ToggleWishlist adds the product if absent, removes it if present. One
// endpoint for the heart button.
func ToggleWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	who := identity.FromRequest(r)
	if who.IsZero() {
		utils.RespondWithError(w, http.StatusUnauthorized, "No wishlist identity")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A product id is required")
		return
	}

	wl, err := load(r.Context(), who)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch wishlist", err)
		return
	}

	var message string
	var added bool
	if items, found := remove(wl.Items, req.ProductID); found {
		wl.Items = items
		message = "Product removed from wishlist"
	} else {
		wl.Items = append(wl.Items, req.ProductID)
		message = "Product added to wishlist"
		added = true
	}

	if err := save(r.Context(), who, wl.Items); err != nil {
		utils.RespondWithInternalError(w, "Failed to update wishlist", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  message,
		"added":    added,
		"wishlist": wl,
	})
}

type mergeRequest struct {
	SessionID string `json:"sessionId"`
}

// MergeWishlist folds a guest session wishlist into the authenticated
// user's after login; duplicates collapse.
func MergeWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	guest, err := load(r.Context(), guestIdent)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to merge wishlists", err)
		return
	}

	wl, err := load(r.Context(), userIdent)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to merge wishlists", err)
		return
	}

	for _, id := range guest.Items {
		if !contains(wl.Items, id) {
			wl.Items = append(wl.Items, id)
		}
	}

	if err := save(r.Context(), userIdent, wl.Items); err != nil {
		utils.RespondWithInternalError(w, "Failed to merge wishlists", err)
		return
	}

	if _, err := db.WishlistCollection.DeleteOne(r.Context(), guestIdent.Filter()); err != nil {
		utils.RespondWithInternalError(w, "Failed to merge wishlists", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Wishlists merged",
		"wishlist": wl,
	})
}
