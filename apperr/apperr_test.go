package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrEmptyCart))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidTransition))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrInconsistency))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("driver timeout")))
}

func TestHTTPStatusUnwrapsSentinels(t *testing.T) {
	wrapped := fmt.Errorf("product p1: %w", ErrInsufficientStock)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(wrapped))

	// a wrapped driver error stays a 500, no matter what operation hit it
	wrapped = fmt.Errorf("failed to decrement stock for p1: %w", errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(wrapped))
}
