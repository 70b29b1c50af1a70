package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/segue"
	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/command"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the subset of segue.Engine the HTTP surface needs.
type Engine interface {
	InvokeNamed(ctx context.Context, named map[string]any, note string) domain.Outcome
	Settings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, s domain.Settings) error
}

var _ Engine = (*segue.Engine)(nil)

// TransitionResponse is the body returned by POST /transition.
type TransitionResponse struct {
	Outcome string `json:"outcome"`
	OK      bool   `json:"ok"`
}

type Server struct {
	Engine  Engine
	Streams *StreamManager
	Metrics http.Handler
	Logger  *slog.Logger
}

type Option func(*Server)

// WithStreams shares a StreamManager, typically one whose Hooks feed the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler builds the router.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/transition", server.Transition)
	r.Get("/settings", server.GetSettings)
	r.Put("/settings", server.PutSettings)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.Metrics != nil {
		r.Handle("/metrics", server.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Transition accepts {"note": "...", "style": "...", "max": 80, "background": true}.
// Parameter values may also be strings; they are coerced like command arguments.
func (s *Server) Transition(w http.ResponseWriter, r *http.Request) {
	body := make(map[string]any)
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Transition: Invalid request body", "error", err)
		return
	}

	note := ""
	if v, ok := body["note"]; ok {
		str, isString := v.(string)
		if !isString {
			http.Error(w, "Invalid note: expected string", http.StatusBadRequest)
			return
		}
		note = str
		delete(body, "note")
	}

	clean, err := command.SanitizeNote(note)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid note: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Transition: Note rejected", "error", err, "size", len(note))
		return
	}

	outcome := s.Engine.InvokeNamed(r.Context(), body, clean)
	writeJSON(w, s.Logger, TransitionResponse{
		Outcome: outcome.String(),
		OK:      !outcome.IsError(),
	})
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Engine.Settings(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Settings error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("GetSettings failed", "error", err)
		return
	}
	writeJSON(w, s.Logger, settings)
}

// PutSettings merges the given fields over the current settings.
func (s *Server) PutSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Engine.Settings(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Settings error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("PutSettings: load failed", "error", err)
		return
	}
	if err := decodeBody(r, &settings); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PutSettings: Invalid request body", "error", err)
		return
	}
	if err := s.Engine.UpdateSettings(r.Context(), settings); err != nil {
		http.Error(w, fmt.Sprintf("Settings error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("PutSettings failed", "error", err)
		return
	}

	updated, err := s.Engine.Settings(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Settings error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.Logger, updated)
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{
		"app":     "segue-http",
		"version": strings.TrimSpace(segue.Version),
		"command": command.Name,
	})
}

// SubscribeEvents streams transition events as server-sent events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.Streams.Subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: transition\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func decodeBody(r *http.Request, v any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return err
	}
	if buf.Len() == 0 {
		return nil
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
