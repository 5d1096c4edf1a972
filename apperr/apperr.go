package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure modes the API distinguishes. Handlers
// translate these to HTTP statuses at the request boundary.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")

	// ErrInconsistency marks a partial stock mutation that could not be
	// compensated. It must always be logged for manual reconciliation.
	ErrInconsistency = errors.New("stock inconsistency")
)

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
