// Package api serves scenario simulation and aggregation over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/logging"
	"github.com/fincast-dev/fincast/internal/scenario"
)

// Server routes API requests to a scenario Service.
type Server struct {
	svc        *scenario.Service
	log        *logrus.Logger
	resolution aggregate.Resolution
	startYear  int
}

// NewServer creates a Server. res is used when a request names no
// resolution; startYear when /api/months gets no startYear.
func NewServer(svc *scenario.Service, log *logrus.Logger, res aggregate.Resolution, startYear int) *Server {
	return &Server{svc: svc, log: log, resolution: res, startYear: startYear}
}

// Router returns the HTTP handler for every API route.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/schema", s.schema).Methods(http.MethodGet)
	api.HandleFunc("/months", s.months).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", s.listScenarios).Methods(http.MethodGet)
	api.HandleFunc("/scenarios", s.addScenario).Methods(http.MethodPost)
	api.HandleFunc("/scenarios", s.clearScenarios).Methods(http.MethodDelete)
	api.HandleFunc("/scenarios/{name}", s.getScenario).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{name}", s.deleteScenario).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	return cors(r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField(logging.FieldAddr, addr).Info("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithFields(logrus.Fields{
			logging.FieldMethod:   r.Method,
			logging.FieldPath:     r.URL.Path,
			logging.FieldStatus:   rec.status,
			logging.FieldDuration: time.Since(start).Milliseconds(),
		})
		switch {
		case rec.status >= 500:
			entry.Error("request failed")
		case rec.status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
