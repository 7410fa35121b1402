package httpapi

import (
	"net/http"
	"strconv"

	"github.com/adelorme/partage/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// finalize publishes an open session. Query parameters: expire (duration
// spec, default 7d), name, max_download.
func (s *Server) finalize(w http.ResponseWriter, r *http.Request) {

	key := models.SecretKey(chi.URLParam(r, "secretKey"))
	q := r.URL.Query()

	var maxDownloads int64
	if raw := q.Get("max_download"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid max_download", http.StatusBadRequest)
			return
		}
		maxDownloads = parsed
	}

	id, expiresAt, err := s.service.Finalize(r.Context(), key, q.Get("name"), q.Get("expire"), maxDownloads)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, finalizeResponse{
		Identifier: string(id),
		ExpiredAt:  expiresAt.Unix(),
	})
}

// deleteFile removes a file via its write capability.
func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {

	key := models.SecretKey(chi.URLParam(r, "secretKey"))

	if err := s.service.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}
