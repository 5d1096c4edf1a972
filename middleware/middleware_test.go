package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendora/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func TestValidateJWTRoundTrip(t *testing.T) {
	token := signToken(t, "u1", "user", time.Hour)

	claims, err := ValidateJWT("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	token := signToken(t, "u1", "user", -time.Hour)

	_, err := ValidateJWT("Bearer " + token)
	assert.Error(t, err)
}

func TestValidateJWTRequiresBearerPrefix(t *testing.T) {
	token := signToken(t, "u1", "user", time.Hour)

	_, err := ValidateJWT(token)
	assert.Error(t, err)

	_, err = ValidateJWT("Basic " + token)
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)
}

// decodeEnvelope asserts the response is the standard JSON error envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticateSetsContext(t *testing.T) {
	token := signToken(t, "u1", "admin", time.Hour)

	var gotUser, gotRole string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, "admin", gotRole)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing token", body["message"])
}

func TestAuthenticateRejectsMalformedTokenWithEnvelope(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "not-a-bearer-token")
	w := httptest.NewRecorder()
	handler(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestOptionalAuthMintsSessionID(t *testing.T) {
	var gotSession string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotSession, _ = r.Context().Value(globals.SessionIDKey).(string)
	})

	r := httptest.NewRequest("GET", "/api/cart", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	assert.NotEmpty(t, gotSession)
	assert.Equal(t, gotSession, w.Header().Get("X-Session-Id"))
}

func TestOptionalAuthKeepsProvidedSessionID(t *testing.T) {
	var gotSession string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotSession, _ = r.Context().Value(globals.SessionIDKey).(string)
	})

	r := httptest.NewRequest("GET", "/api/cart", nil)
	r.Header.Set("X-Session-Id", "s-existing")
	w := httptest.NewRecorder()
	handler(w, r, nil)

	assert.Equal(t, "s-existing", gotSession)
}

func TestAdminOnly(t *testing.T) {
	adminToken := signToken(t, "u1", "admin", time.Hour)
	userToken := signToken(t, "u2", "user", time.Hour)

	handler := Authenticate(AdminOnly(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest("GET", "/api/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	handler(w, r, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	r = httptest.NewRequest("GET", "/api/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer "+userToken)
	w = httptest.NewRecorder()
	handler(w, r, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Admin access required", body["message"])
}
