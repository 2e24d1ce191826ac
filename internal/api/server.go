package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/faradayfan/instance-power/internal/protocol"
)

// Dispatcher is satisfied by *control.Handler.
type Dispatcher interface {
	Handle(ctx context.Context, ev protocol.Event) (protocol.Response, error)
}

// Server exposes a Dispatcher over plain HTTP, shaped like an API Gateway
// proxy integration. It is meant for local runs.
type Server struct {
	dispatcher Dispatcher
	log        logrus.FieldLogger

	addr string
}

func NewServer(d Dispatcher, addr string, log logrus.FieldLogger) *Server {
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Server{
		dispatcher: d,
		log:        log,
		addr:       addr,
	}
}

func (s *Server) Addr() string { return s.addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInvoke)
	mux.HandleFunc("POST /{$}", s.handleInvoke)

	// cheap health endpoint
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return s.logRequests(mux)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(protocol.ErrorBody{Error: msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"remote": r.RemoteAddr,
		}).Debug("http request")
		next.ServeHTTP(w, r)
	})
}
