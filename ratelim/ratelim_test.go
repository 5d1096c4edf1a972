package ratelim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitRejectsWithJSONEnvelope(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	var last *httptest.ResponseRecorder
	rejected := false
	// burst is 10; hammering past it must produce a 429
	for i := 0; i < 30; i++ {
		r := httptest.NewRequest("POST", "/api/orders", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler(last, r, nil)
		if last.Code == http.StatusTooManyRequests {
			rejected = true
			break
		}
	}

	require.True(t, rejected, "expected a rate-limit rejection within the burst window")
	assert.Equal(t, "application/json", last.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests", body["message"])
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	// exhaust one IP's burst
	for i := 0; i < 30; i++ {
		r := httptest.NewRequest("POST", "/api/orders", nil)
		r.RemoteAddr = "10.0.0.2:1234"
		handler(httptest.NewRecorder(), r, nil)
	}

	// a different IP still gets through
	r := httptest.NewRequest("POST", "/api/orders", nil)
	r.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
