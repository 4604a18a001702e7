package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"todos/internal/models"
	"todos/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	logger *log.Logger
}

// New creates a new Handlers instance.
func New(s store.Store, logger *log.Logger) *Handlers {
	return &Handlers{
		store:  s,
		logger: logger,
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse acknowledges requests that return no record.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// todoID extracts the record id from the URL.
func todoID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// respondJSON writes v as a JSON body with the given status code.
func (h *Handlers) respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "err", err)
	}
}

// respondError sends an error response.
func (h *Handlers) respondError(w http.ResponseWriter, code int, message string) {
	h.respondJSON(w, code, errorResponse{Error: message})
}

// respondStoreError maps a store error onto a status code. Validation and
// not-found errors have fixed codes; anything else is a store failure and
// gets storeCode.
func (h *Handlers) respondStoreError(w http.ResponseWriter, r *http.Request, op string, storeCode int, err error) {
	switch {
	case models.IsValidation(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "todo not found")
	default:
		h.logger.Error("store error", "op", op, "path", r.URL.Path, "err", err)
		h.respondError(w, storeCode, err.Error())
	}
}
