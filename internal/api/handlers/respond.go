package handlers

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServerError surfaces the underlying failure message alongside the
// generic marker, matching the API's established error body shape.
func respondServerError(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"message": "Server error",
		"error":   err.Error(),
	})
}
