package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/harmwatch/server/internal/errs"
	"github.com/harmwatch/server/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
		"version":   Version,
	})
}

// handleListCases serves GET /cases with optional category/status filters and
// page/limit pagination. Non-numeric values fall back to defaults.
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := s.cases.List(r.Context(),
		model.CaseFilter{Category: q.Get("category"), Status: q.Get("status")},
		model.Page{Page: page, Limit: limit},
	)
	if err != nil {
		s.log.Error("list cases", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch cases")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       res.Items,
		Pagination: &res.PageInfo,
	})
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Case not found")
		return
	}
	c, err := s.cases.Get(r.Context(), id)
	switch {
	case err == nil:
		writeData(w, http.StatusOK, c, "")
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "Case not found")
	default:
		s.log.Error("get case", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch case")
	}
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var in model.NewCase
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := s.cases.Create(r.Context(), u.ID, in)
	switch {
	case err == nil:
		writeData(w, http.StatusCreated, c, "Case submitted successfully")
	case errs.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("create case", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create case")
	}
}

func (s *Server) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Case not found")
		return
	}
	var patch model.CasePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := s.cases.Update(r.Context(), u, id, patch)
	switch {
	case err == nil:
		writeData(w, http.StatusOK, c, "Case updated successfully")
	case errs.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "Case not found")
	default:
		s.log.Error("update case", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update case")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.cases.Statistics(r.Context())
	if err != nil {
		s.log.Error("statistics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	writeData(w, http.StatusOK, st, "")
}
