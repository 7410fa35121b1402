package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// fileInfo returns the metadata and ordered part list of a published file.
func (s *Server) fileInfo(w http.ResponseWriter, r *http.Request) {

	id := models.FileID(chi.URLParam(r, "identifier"))

	file, parts, err := s.service.Info(r.Context(), id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(r.Context(), "failed to load file info", "error", err)
		}
		writeError(w, err)
		return
	}

	resp := fileInfoResponse{
		File: fileMeta{
			Name:      file.Name,
			FileSize:  file.TotalSize,
			ExpiredAt: file.ExpiresAt.Unix(),
		},
		Parts: make([]partMeta, 0, len(parts)),
	}
	for _, p := range parts {
		resp.Parts = append(resp.Parts, partMeta{
			Identifier: p.Identifier,
			Offset:     p.Offset,
			Hash:       p.Hash,
			FileSize:   p.Size,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// fetchPart streams the raw bytes of one stored part. Losing the race to
// the sweeper is an ordinary 404.
func (s *Server) fetchPart(w http.ResponseWriter, r *http.Request) {

	partID := chi.URLParam(r, "identifier")

	rc, err := s.service.OpenPart(r.Context(), partID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "failed to stream part", "part", partID, "error", err)
	}
}
