// Package http exposes the turn loop over a JSON API backed by the
// session manager.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowsmith/flowsmith"
	"github.com/flowsmith/flowsmith/internal/logging"
	"github.com/flowsmith/flowsmith/internal/presentation/graph"
	"github.com/flowsmith/flowsmith/pkg/session"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// Server wires the Architect and session manager into HTTP handlers.
type Server struct {
	arch     *flowsmith.Architect
	sessions *session.Manager
	logger   *slog.Logger

	registry *prometheus.Registry
	turns    *prometheus.CounterVec
	latency  prometheus.Histogram
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server with its own metrics registry.
func NewServer(arch *flowsmith.Architect, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		arch:     arch,
		sessions: sessions,
		logger:   logging.NewNop(),
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsmith_turns_total",
				Help: "Total number of instruction turns by outcome",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "flowsmith_turn_duration_seconds",
				Help: "Duration of instruction turns",
			},
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry.MustRegister(s.turns, s.latency)
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/turns", s.handleTurn)
			r.Get("/workflow", s.handleGetWorkflow)
			r.Get("/graph", s.handleGetGraph)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionResponse struct {
	ID       string             `json:"id"`
	Document *workflow.Workflow `json:"document"`
	Messages []session.Message  `json:"messages"`
}

type turnRequest struct {
	Instruction string `json:"instruction"`
}

type turnResponse struct {
	Message   string                 `json:"message"`
	Committed bool                   `json:"committed"`
	Document  *workflow.Workflow     `json:"document"`
	Diff      *workflow.DocumentDiff `json:"diff,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": flowsmith.Version})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess, err := s.sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		s.logger.Error("session create failed", "err", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Document: sess.Document, Messages: sess.Messages})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.logger.Error("session list failed", "err", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Document: sess.Document, Messages: sess.Messages})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		if err == session.ErrNotFound {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		s.logger.Error("session delete failed", "err", err)
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var body turnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Instruction == "" {
		http.Error(w, "invalid request body: instruction required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	start := time.Now()

	var resp turnResponse
	err := s.sessions.Update(r.Context(), id, func(sess *session.Session) error {
		res, err := s.arch.Submit(r.Context(), sess, body.Instruction)
		if err != nil {
			return err
		}
		resp = turnResponse{
			Message:   res.Message,
			Committed: res.Committed,
			Document:  res.Document,
			Diff:      res.Diff,
		}
		return nil
	})
	s.latency.Observe(time.Since(start).Seconds())

	if err != nil {
		if err == session.ErrNotFound {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		s.turns.WithLabelValues("error").Inc()
		s.logger.Error("turn failed", "session", id, "err", err)
		http.Error(w, "turn failed", http.StatusInternalServerError)
		return
	}

	if resp.Committed {
		s.turns.WithLabelValues("committed").Inc()
	} else {
		s.turns.WithLabelValues("rejected").Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Document)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	var out string
	switch format {
	case "", "mermaid":
		out = graph.GenerateMermaid(sess.Document)
	case "dot":
		out = graph.GenerateDOT(sess.Document)
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if err == session.ErrNotFound {
			http.Error(w, "session not found", http.StatusNotFound)
			return nil, false
		}
		s.logger.Error("session load failed", "session", id, "err", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
