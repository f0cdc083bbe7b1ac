package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commerceledger/core/ledger"
	"commerceledger/native/commerce"
	"commerceledger/observability"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Server is the daemon's HTTP surface: instruction submission, record
// reads, health and metrics.
type Server struct {
	ledger  *ledger.Ledger
	engine  *commerce.Engine
	token   *ledger.TokenModule
	logger  *slog.Logger
	metrics *observability.InstructionMetrics
}

// NewServer wires the HTTP surface to the ledger and engine.
func NewServer(l *ledger.Ledger, engine *commerce.Engine, token *ledger.TokenModule, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ledger:  l,
		engine:  engine,
		token:   token,
		logger:  logger,
		metrics: observability.Instructions(),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/instructions", s.handleSubmitInstruction)
		r.Get("/merchants/{address}", s.handleGetMerchant)
		r.Get("/operators/{address}", s.handleGetOperator)
		r.Get("/configs/{address}", s.handleGetConfig)
		r.Get("/payments/{address}", s.handleGetPayment)
		r.Get("/balances/{address}", s.handleGetBalance)
	})
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", id),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
