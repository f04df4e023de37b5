// Package httpserver exposes the HTTP JSON API over the application services.
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harmwatch/server/internal/model"
	"github.com/harmwatch/server/internal/service"
)

// ServiceName and Version appear in the /health banner.
const (
	ServiceName = "AI Harm Watch API"
	Version     = "1.0.0"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth  service.AuthService
	cases service.CaseService
	log   *zap.Logger
}

// New constructs a server with injected services.
func New(auth service.AuthService, cases service.CaseService, log *zap.Logger) *Server {
	return &Server{auth: auth, cases: cases, log: log}
}

// Router builds the route table with logging/recover middleware. Mutating
// routes sit behind bearer authentication.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(Logging(s.log))
	r.Use(Recover(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/cases", s.handleListCases)
	r.Get("/cases/{id}", s.handleGetCase)
	r.Get("/stats", s.handleStats)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/cases", s.handleCreateCase)
		r.Patch("/cases/{id}", s.handleUpdateCase)
		r.Get("/auth/me", s.handleMe)
	})

	return r
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success    bool            `json:"success"`
	Data       any             `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *model.PageInfo `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}
