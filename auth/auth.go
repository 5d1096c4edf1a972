package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"vendora/db"
	"vendora/globals"
	"vendora/middleware"
	"vendora/models"
	"vendora/rdx"
	"vendora/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * 24 * time.Hour

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func generateToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Register creates a customer account. Email uniqueness is enforced both
// here and by the unique index on the users collection.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.Email == "" || len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "First name, email and a password of at least 6 characters are required")
		return
	}

	count, err := db.UserCollection.CountDocuments(r.Context(), bson.M{"email": req.Email})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to create account", err)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to create account", err)
		return
	}

	now := time.Now()
	user := models.User{
		UserID:       utils.GenerateID("u", 12),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         "user",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.UserCollection.InsertOne(r.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "An account with this email already exists")
			return
		}
		utils.RespondWithInternalError(w, "Failed to create account", err)
		return
	}

	token, err := generateToken(user)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to create account", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Account created successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// Login authenticates a customer and issues a JWT.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	login(w, r, false)
}

// AdminLogin is the same flow but rejects non-admin accounts, so the
// storefront and the admin panel can share credentials without sharing
// entry points.
func AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	login(w, r, true)
}

func login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		utils.RespondWithError(w, http.StatusForbidden, "This account has been deactivated")
		return
	}
	if adminOnly && user.Role != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	token, err := generateToken(user)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to log in", err)
		return
	}

	_, err = db.UserCollection.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"lastLogin": time.Now()}})
	if err != nil {
		log.Printf("Failed to record last login for %s: %v", user.UserID, err)
	}

	if err := rdx.RdxHset("tokki", user.UserID, token); err != nil {
		log.Printf("Failed to cache session token for %s: %v", user.UserID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Logged in successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// Logout drops the cached session token. The JWT itself stays valid until
// expiry; clients are expected to discard it.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID != "" {
		if _, err := rdx.RdxHdel("tokki", userID); err != nil {
			log.Printf("Failed to drop session token for %s: %v", userID, err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Logged out successfully",
	})
}
