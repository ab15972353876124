// Package web serves the controller's status page, its JSON form and a
// readiness probe for the supervisor.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/status"
)

// RefreshSeconds is the HTML page auto-refresh period.
const RefreshSeconds = "5"

// StatusSource yields the current controller snapshot.
type StatusSource interface {
	Snapshot() status.Snapshot
}

// Server is the HTTP status endpoint.
type Server struct {
	http *http.Server
	src  StatusSource
	log  *slog.Logger
}

// New creates a Server on addr reading from src.
func New(addr string, src StatusSource, log *slog.Logger) *Server {
	s := &Server{src: src, log: logging.Component(log, "web")}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.page)
	mux.HandleFunc("GET /index.html", s.page)
	mux.HandleFunc("GET /index.json", s.json)
	mux.HandleFunc("GET /healthz", s.healthz)

	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	return s.http.Serve(ln)
}

// Shutdown stops the server once in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Refresh", RefreshSeconds)
	renderHTML(w, s.src.Snapshot())
}

func (s *Server) json(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(status.FormatJSON(s.src.Snapshot())); err != nil {
		s.log.Debug("write status json", "err", err)
	}
}

// healthz is 200 once the control loop has ticked, 503 before.
func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	snap := s.src.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !snap.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("starting\n"))
		return
	}
	w.Write([]byte(snap.Machine.Current.String() + "\n"))
}
