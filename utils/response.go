package utils

import (
	"encoding/json"
	"net/http"
	"os"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithError writes the standard {success:false, message} envelope.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"success": false, "message": msg})
}

// RespondWithInternalError hides the underlying error text unless the
// server runs in development mode.
func RespondWithInternalError(w http.ResponseWriter, msg string, err error) {
	if DevMode() && err != nil {
		RespondWithJSON(w, http.StatusInternalServerError, M{
			"success": false,
			"message": msg,
			"error":   err.Error(),
		})
		return
	}
	RespondWithError(w, http.StatusInternalServerError, msg)
}

func DevMode() bool {
	return os.Getenv("APP_ENV") == "development"
}
