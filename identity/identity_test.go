package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"vendora/globals"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIdentityIsExclusive(t *testing.T) {
	user := User("u123")
	assert.True(t, user.IsUser())
	assert.Equal(t, "u123", user.UserID())
	assert.Empty(t, user.SessionID())

	session := Session("s456")
	assert.False(t, session.IsUser())
	assert.Equal(t, "s456", session.SessionID())
	assert.Empty(t, session.UserID())
}

func TestIsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.True(t, User("").IsZero())
	assert.False(t, User("u1").IsZero())
	assert.False(t, Session("s1").IsZero())
}

func TestFilter(t *testing.T) {
	assert.Equal(t, bson.M{"userid": "u1"}, User("u1").Filter())
	assert.Equal(t, bson.M{"sessionid": "s1"}, Session("s1").Filter())
	assert.Nil(t, Identity{}.Filter())
}

func TestFromRequestPrefersUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/cart", nil)
	ctx := context.WithValue(r.Context(), globals.UserIDKey, "u1")
	ctx = context.WithValue(ctx, globals.SessionIDKey, "s1")

	who := FromRequest(r.WithContext(ctx))
	assert.True(t, who.IsUser())
	assert.Equal(t, "u1", who.UserID())
}

func TestFromRequestFallsBackToSession(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/cart", nil)
	ctx := context.WithValue(r.Context(), globals.SessionIDKey, "s1")

	who := FromRequest(r.WithContext(ctx))
	assert.False(t, who.IsUser())
	assert.Equal(t, "s1", who.SessionID())
}

func TestFromRequestAnonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/cart", nil)
	assert.True(t, FromRequest(r).IsZero())
}
