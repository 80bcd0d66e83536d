package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/metrics"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Addr    string
	auditor *Auditor
	handler http.Handler
}

func New(cfg config.ServerConfig) *Server {
	s := &Server{
		Addr:    cfg.Addr,
		auditor: NewAuditor(cfg.MaxRequestBytes),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/audit", s.handleAudit)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.withLogging(s.withCORS(mux))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.Addr).Info("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if s.auditor.MaxRequestBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.auditor.MaxRequestBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			err = &ErrTooLarge{Limit: maxBytes.Limit}
		}
		status := HTTPStatus(err)
		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		jsonResponse(w, status, AuditResponse{Error: err.Error()})
		return
	}

	status, resp := s.auditor.Handle(data)
	if status >= http.StatusInternalServerError {
		log.Errorf("Error analyzing code: %s", resp.Error)
	}
	metrics.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	jsonResponse(w, status, resp)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()
		rec.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start),
		}).Info("request")
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Error encoding JSON response: %v", err)
	}
}
