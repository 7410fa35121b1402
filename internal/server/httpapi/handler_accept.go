package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/adelorme/partage/internal/common"
	"github.com/adelorme/partage/internal/server/models"
)

// multipart framing overhead allowed on top of the chunk cap
const acceptBodyLimit = common.MaxChunkSize + 64<<10

// acceptChunk handles one multipart chunk upload with fields secret_key,
// offset (hint), hash and file.
func (s *Server) acceptChunk(w http.ResponseWriter, r *http.Request) {

	// reject oversized bodies before buffering completes
	r.Body = http.MaxBytesReader(w, r.Body, acceptBodyLimit)

	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "multipart body expected", http.StatusBadRequest)
		return
	}

	var (
		secretKey string
		offsetStr string
		hash      string
		data      []byte
		haveFile  bool
	)

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if tooLarge(err) {
				writeError(w, common.ErrPayloadTooLarge)
				return
			}
			http.Error(w, "malformed multipart body", http.StatusBadRequest)
			return
		}

		value, over, err := readField(part)
		if err != nil {
			if tooLarge(err) {
				writeError(w, common.ErrPayloadTooLarge)
				return
			}
			http.Error(w, "malformed multipart body", http.StatusBadRequest)
			return
		}
		if over {
			writeError(w, common.ErrPayloadTooLarge)
			return
		}

		switch part.FormName() {
		case "secret_key":
			secretKey = string(value)
		case "offset":
			offsetStr = string(value)
		case "hash":
			hash = string(value)
		case "file":
			data = value
			haveFile = true
		}
	}

	if secretKey == "" || offsetStr == "" || hash == "" || !haveFile {
		http.Error(w, "missing multipart fields", http.StatusBadRequest)
		return
	}

	claimedOffset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}

	offset, err := s.service.Accept(r.Context(), models.SecretKey(secretKey), claimedOffset, hash, data)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) && !errors.Is(err, common.ErrHashMismatch) && !errors.Is(err, common.ErrPayloadTooLarge) {
			s.logger.Error(r.Context(), "failed to accept chunk", "error", err)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, acceptChunkResponse{Message: "ok", Offset: offset})
}

// readField buffers one multipart field, reporting over=true when it
// exceeds the chunk cap.
func readField(r io.Reader) (value []byte, over bool, err error) {
	b, err := io.ReadAll(io.LimitReader(r, common.MaxChunkSize+1))
	if err != nil {
		return nil, false, err
	}
	if len(b) > common.MaxChunkSize {
		return nil, true, nil
	}
	return b, false, nil
}

// tooLarge detects the error MaxBytesReader injects mid-read.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
