package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func findAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// Me returns the authenticated user's profile including the saved address.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"user":    user.Public(),
		"address": user.Address,
	})
}

type updateProfileRequest struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Phone     *string         `json:"phone"`
	Address   *models.Address `json:"address"`
}

// UpdateProfile patches the provided fields only. A saved address is
// round-tripped verbatim so checkout can prefill it.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "First name cannot be empty")
			return
		}
		set["firstName"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		set["lastName"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		set["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}

	var user models.User
	err := db.UserCollection.FindOneAndUpdate(r.Context(),
		bson.M{"userid": userID},
		bson.M{"$set": set},
		findAfter()).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user.Public(),
		"address": user.Address,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(req.NewPassword) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to change password", err)
		return
	}

	_, err = db.UserCollection.UpdateOne(r.Context(),
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to change password", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Password changed successfully",
	})
}
