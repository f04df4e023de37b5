package httpserver

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
)

// authPayload pairs a public user with its freshly issued credential.
type authPayload struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// remoteIP strips the port from RemoteAddr for rate-limiter keying.
func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, token, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		writeData(w, http.StatusCreated, authPayload{User: u, Token: token}, "User registered successfully")
	case errs.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "User already exists")
	default:
		s.log.Error("register", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to register user")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, token, err := s.auth.Login(r.Context(), req.Email, req.Password, remoteIP(r))
	switch {
	case err == nil:
		writeData(w, http.StatusOK, authPayload{User: u, Token: token}, "Login successful")
	case errs.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, errs.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
	default:
		s.log.Error("login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to login")
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeData(w, http.StatusOK, u.Public(), "")
}
