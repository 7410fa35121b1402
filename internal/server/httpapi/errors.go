package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adelorme/partage/internal/common"
)

// writeError maps sentinel errors onto wire statuses. Internal error detail
// never reaches the response body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrHashMismatch):
		http.Error(w, "invalid hash", http.StatusBadRequest)
	case errors.Is(err, common.ErrInvalidExpiry):
		http.Error(w, "invalid expire parameter", http.StatusBadRequest)
	case errors.Is(err, common.ErrPayloadTooLarge):
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
