// Package httpapi exposes the transfer service over the JSON/multipart wire
// protocol.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/adelorme/partage/internal/logging"
	"github.com/adelorme/partage/internal/server/transfers"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	addr    string
	service *transfers.Service
	logger  logging.Logger
}

func NewServer(addr string, service *transfers.Service, logger logging.Logger) *Server {
	return &Server{
		addr:    addr,
		service: service,
		logger:  logger.With("module", "httpapi"),
	}
}

// Routes registers all endpoints. Exposed separately from Run so tests can
// mount the handler on httptest.Server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/file", s.openSession)
	r.Post("/part_file", s.acceptChunk)
	r.Get("/status/{secretKey}", s.status)
	r.Post("/file/{secretKey}", s.finalize)
	r.Get("/file_info/{identifier}", s.fileInfo)
	r.Get("/file/{identifier}", s.fetchPart)
	r.Delete("/file/{secretKey}", s.deleteFile)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
