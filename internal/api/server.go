// Package api serves stored leaderboards over a read-only HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	corslib "github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates the chi router with middleware and routes.
func NewRouter(store contract.HistoryStore, cfg *contract.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	c := corslib.New(corslib.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	h := &Handler{store: activeHistory(store), cfg: cfg}

	r.Get("/healthz", h.Health)
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/metrics/definitions", h.GetMetricDefinitions)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// activeHistory returns nil for a missing store and for one whose backend is
// "none", so handlers only have one disabled case to check.
func activeHistory(store contract.HistoryStore) contract.HistoryStore {
	if store == nil {
		return nil
	}
	if s, ok := store.(interface{ Enabled() bool }); ok && !s.Enabled() {
		return nil
	}
	return store
}

// RequestLogger logs each request with its status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// Serve runs the API on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("HTTP API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
