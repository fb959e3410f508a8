package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/aretw0/upskill/pkg/runner"
	"github.com/aretw0/upskill/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the part of the assessment engine the API drives.
type Engine interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context, sessionID string) domain.WizardState
	Answer(ctx context.Context, state domain.WizardState, questionID int, optionIDs []string) (domain.WizardState, error)
	SetContact(ctx context.Context, state domain.WizardState, contact domain.Contact) (domain.WizardState, error)
	Advance(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error)
	Retreat(ctx context.Context, state domain.WizardState) (domain.WizardState, bool, error)
	Reset(ctx context.Context, state domain.WizardState) (domain.WizardState, error)
	View(state domain.WizardState) upskill.View
	Quote(track domain.Track, mode domain.DeliveryMode, teamSize int) (domain.QuoteBreakdown, error)
}

var _ Engine = (*upskill.Engine)(nil)

// Server serves the assessment API.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger

	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetrics exposes h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine. Session state lives in sessions.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/catalog", s.GetCatalog)
	r.Post("/quote", s.PostQuote)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/events", s.SubscribeEvents)
			r.Put("/answers/{questionID}", s.PutAnswer)
			r.Put("/contact", s.PutContact)
			r.Post("/advance", s.PostAdvance)
			r.Post("/retreat", s.PostRetreat)
			r.Post("/reset", s.PostReset)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionResponse is the session view, plus whether a navigation moved.
type sessionResponse struct {
	upskill.View
	Moved *bool `json:"moved,omitempty"`
}

type answerRequest struct {
	Options []string `json:"options"`
}

type quoteRequest struct {
	Track    domain.Track        `json:"track"`
	Delivery domain.DeliveryMode `json:"delivery"`
	TeamSize int                 `json:"team_size"`
}

type quoteResponse struct {
	domain.QuoteBreakdown
	LineItems []domain.LineItem `json:"line_items"`
}

type catalogResponse struct {
	Currency    string             `json:"currency"`
	MinTeamSize int                `json:"min_team_size"`
	MaxTeamSize int                `json:"max_team_size"`
	Questions   []domain.Question  `json:"questions"`
	Tracks      []domain.TrackInfo `json:"tracks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "upskill-http",
		"version": strings.TrimSpace(upskill.Version),
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.Engine.Catalog()
	s.writeJSON(w, http.StatusOK, catalogResponse{
		Currency:    cat.Currency,
		MinTeamSize: cat.MinTeamSize,
		MaxTeamSize: cat.MaxTeamSize,
		Questions:   cat.Questions,
		Tracks:      cat.OrderedTracks(),
	})
}

// PostQuote handles POST /quote, pricing a track without a session.
func (s *Server) PostQuote(w http.ResponseWriter, r *http.Request) {
	var body quoteRequest
	if !s.decode(w, r, &body) {
		return
	}
	q, err := s.Engine.Quote(body.Track, body.Delivery, body.TeamSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quoteResponse{QuoteBreakdown: q, LineItems: q.LineItems()})
}

// CreateSession handles POST /sessions. An optional {"session_id": "..."} body
// resumes that session when it exists.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}

	id := strings.TrimSpace(body.SessionID)
	if id == "" {
		state := s.Engine.Start(r.Context(), "")
		if err := s.Sessions.Save(r.Context(), state.SessionID, state); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, sessionResponse{View: s.Engine.View(state)})
		return
	}

	state, created, err := s.Sessions.LoadOrStart(r.Context(), id, func(id string) domain.WizardState {
		return s.Engine.Start(r.Context(), id)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, sessionResponse{View: s.Engine.View(state)})
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{View: s.Engine.View(state)})
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutAnswer handles PUT /sessions/{sessionID}/answers/{questionID}.
func (s *Server) PutAnswer(w http.ResponseWriter, r *http.Request) {
	qid, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %q", domain.ErrUnknownQuestion, chi.URLParam(r, "questionID")))
		return
	}
	var body answerRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(ctx context.Context, state domain.WizardState) (domain.WizardState, *bool, error) {
		next, err := s.Engine.Answer(ctx, state, qid, body.Options)
		return next, nil, err
	})
}

// PutContact handles PUT /sessions/{sessionID}/contact.
func (s *Server) PutContact(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if !s.decode(w, r, &contact) {
		return
	}
	for _, field := range []*string{&contact.CompanyName, &contact.ContactName, &contact.Email, &contact.Phone} {
		clean, err := runner.SanitizeInput(*field)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		*field = clean
	}
	if err := s.Engine.Catalog().CheckTeamSize(contact.TeamSize); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.update(w, r, func(ctx context.Context, state domain.WizardState) (domain.WizardState, *bool, error) {
		next, err := s.Engine.SetContact(ctx, state, contact)
		return next, nil, err
	})
}

// PostAdvance handles POST /sessions/{sessionID}/advance.
// An incomplete step answers 200 with "moved": false.
func (s *Server) PostAdvance(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(ctx context.Context, state domain.WizardState) (domain.WizardState, *bool, error) {
		next, moved, err := s.Engine.Advance(ctx, state)
		return next, &moved, err
	})
}

// PostRetreat handles POST /sessions/{sessionID}/retreat.
func (s *Server) PostRetreat(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(ctx context.Context, state domain.WizardState) (domain.WizardState, *bool, error) {
		next, moved, err := s.Engine.Retreat(ctx, state)
		return next, &moved, err
	})
}

// PostReset handles POST /sessions/{sessionID}/reset.
func (s *Server) PostReset(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(ctx context.Context, state domain.WizardState) (domain.WizardState, *bool, error) {
		next, err := s.Engine.Reset(ctx, state)
		return next, nil, err
	})
}

// update runs fn on the stored session under its lock, saves the result and
// broadcasts the new view to subscribers.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.WizardState) (domain.WizardState, *bool, error)) {
	id := chi.URLParam(r, "sessionID")
	var moved *bool
	state, err := s.Sessions.Update(r.Context(), id, func(state domain.WizardState) (domain.WizardState, error) {
		next, m, err := fn(r.Context(), state)
		moved = m
		return next, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := s.Engine.View(state)
	if payload, err := json.Marshal(view); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{View: view, Moved: moved})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrQuestionHidden),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrTooManySelections),
		errors.Is(err, domain.ErrUnknownTrack),
		errors.Is(err, domain.ErrUnknownDeliveryMode),
		errors.Is(err, domain.ErrInvalidTeamSize):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		s.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
