package httpapi

import (
	"net/http"

	"github.com/adelorme/partage/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// openSession allocates a write capability and an empty session.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {

	key, expiresAt, err := s.service.Open(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "failed to open session", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, openSessionResponse{
		SecretKey: string(key),
		ExpiredAt: expiresAt.Unix(),
	})
}

// status reports the authoritative resume point for an open session.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {

	key := models.SecretKey(chi.URLParam(r, "secretKey"))

	st, err := s.service.Status(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Offset:     st.Offset,
		Hash:       st.Hash,
		FileSize:   st.Size,
		BytesTotal: st.BytesTotal,
	})
}
