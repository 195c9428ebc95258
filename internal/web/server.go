// Package web provides the HTTP diagnostic surface of the door controller.
package web

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/mqtt"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Server serves the door table over HTTP.
type Server struct {
	httpServer *http.Server
	store      *status.Store
	conn       mqtt.ConnectionStatus // optional
}

// New creates a Server that reads state from the given store.
// conn may be nil when no broker is configured.
func New(addr string, store *status.Store, conn mqtt.ConnectionStatus) *Server {
	s := &Server{store: store, conn: conn}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleTable)
	mux.HandleFunc("/status.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap, err := s.store.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := status.WriteTable(w, snap); err != nil {
		log.WithError(err).Debug("status table write failed")
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	ready := err == nil

	body, err := formatJSON(snap, ready, s.conn)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	w.Write(body)
}
