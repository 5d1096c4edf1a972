package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"vendora/db"
	"vendora/mailer"
	"vendora/rdx"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

var mail = mailer.NewFromEnv()

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ForgotPassword issues a short-lived reset token and mails it. The
// response is identical whether or not the email exists, so the endpoint
// cannot be used to probe for accounts.
func ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user struct {
		UserID string `bson:"userid"`
		Email  string `bson:"email"`
	}
	err := db.UserCollection.FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err == nil {
		token, terr := newResetToken()
		if terr == nil {
			if serr := rdx.SetWithExpiry("pwdreset:"+token, user.UserID, resetTokenTTL); serr != nil {
				log.Printf("Failed to store reset token for %s: %v", user.UserID, serr)
			} else {
				base := os.Getenv("FRONTEND_URL")
				if base == "" {
					base = "http://localhost:3000"
				}
				resetURL := fmt.Sprintf("%s/reset-password/%s", base, token)
				go func() {
					if merr := mail.SendPasswordReset(user.Email, resetURL); merr != nil {
						log.Printf("Failed to send reset mail to %s: %v", user.Email, merr)
					}
				}()
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// ResetPassword consumes a token from ForgotPassword and sets a new
// password. Tokens are single use.
func ResetPassword(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := ps.ByName("token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	userID, err := rdx.RdxGet("pwdreset:" + token)
	if err != nil || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to reset password", err)
		return
	}

	res, err := db.UserCollection.UpdateOne(r.Context(),
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		utils.RespondWithInternalError(w, "Failed to reset password", err)
		return
	}

	if err := rdx.RdxDel("pwdreset:" + token); err != nil {
		log.Printf("Failed to invalidate reset token: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Password has been reset. You can now log in.",
	})
}
