package handlers

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 2 * time.Second

// Home answers the liveness probe at "/".
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, successResponse{Success: true, Message: "Backend running"})
}

// Healthz reports whether the store is reachable.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store ping failed", "err", err)
		h.respondJSON(w, http.StatusServiceUnavailable, successResponse{Success: false, Message: err.Error()})
		return
	}

	h.respondJSON(w, http.StatusOK, successResponse{Success: true})
}
