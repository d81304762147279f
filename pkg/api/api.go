// Package api exposes the state of the pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"certmatch/pkg/pipeline"

	"github.com/arl/statsviz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StatsProvider reports the pipeline counters
type StatsProvider interface {
	Stats() pipeline.Stats
}

// Server serves /healthz, /stats and the statsviz dashboard
type Server struct {
	engine StatsProvider
	srv    *http.Server
}

// New returns a server listening on addr
func New(addr string, engine StatsProvider) (*Server, error) {
	s := &Server{engine: engine}
	router, err := s.Router()
	if err != nil {
		return nil, err
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Router builds the routes
func (s *Server) Router() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, errors.Wrap(err, "can't register statsviz")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.Health)
	r.Get("/stats", s.Stats)
	r.Handle("/debug/statsviz", mux)
	r.Handle("/debug/statsviz/*", mux)
	return r, nil
}

// Health answers as long as the process is up
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats returns the counters of the pipeline
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats())
}

// ListenAndServe blocks until ctx is done, then shuts the server down
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Status API listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
