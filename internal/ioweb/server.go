// Package ioweb serves stored events over HTTP.
package ioweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	revatlas "github.com/revatlas/revatlas/pkg"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/revatlas/revatlas/pkg/lifecycle"
)

const shutdownTimeout = 10 * time.Second

var validate = validator.New()

// Server is the read-only events gateway.
type Server struct {
	cfg   *config.Config
	store lifecycle.EventStore
}

// New creates a gateway over store.
func New(cfg *config.Config, store lifecycle.EventStore) *Server {
	return &Server{cfg: cfg, store: store}
}

// Handler returns the router with all middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Group(func(r chi.Router) {
			if s.cfg.Server.RateLimit > 0 {
				r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit, time.Minute))
			}
			r.Get("/events", s.listEvents)
			r.Get("/events/{id}", s.getEvent)
		})
	})

	return r
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServerError(addr, err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return ServerError(addr, err)
	}
	return nil
}

type eventsRequest struct {
	CountryISO string `validate:"omitempty,alpha,min=2,max=3"`
	Country    string `validate:"omitempty,max=200"`
}

// listEvents handles GET /api/events?countryIso=..&country=..
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := eventsRequest{
		CountryISO: strings.TrimSpace(q.Get("countryIso")),
		Country:    strings.TrimSpace(q.Get("country")),
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest,
			"countryIso must be 2 or 3 letters, country at most 200 characters")
		return
	}

	f := lifecycle.EventFilter{
		CountryISO: req.CountryISO,
		Country:    req.Country,
		MinYear:    s.cfg.MinYear,
	}
	if f.IsEmpty() {
		respondError(w, http.StatusBadRequest, "countryIso or country is required")
		return
	}

	events, err := s.store.FindEvents(r.Context(), f)
	if err != nil {
		slog.Error("Cannot find events", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot read events")
		return
	}
	respondJSON(w, http.StatusOK, toJSONList(events))
}

// getEvent handles GET /api/events/{id}
func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	ev, err := s.store.EventByID(r.Context(), uint(id))
	if err != nil {
		slog.Error("Cannot read event", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "cannot read event")
		return
	}
	if ev == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}
	respondJSON(w, http.StatusOK, toJSON(ev))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, healthJSON{
			Status:  "unavailable",
			Version: revatlas.Version,
		})
		return
	}
	respondJSON(w, http.StatusOK, healthJSON{
		Status:  "ok",
		Events:  n,
		Version: revatlas.Version,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Cannot marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		slog.Debug("Cannot write response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorJSON{Error: msg})
}

// requestLogger writes one slog record per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			slog.Info("HTTP request",
				"request_id", chimiddleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"duration", time.Since(start),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
