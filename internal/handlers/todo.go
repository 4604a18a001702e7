package handlers

import (
	"encoding/json"
	"net/http"

	"todos/internal/models"
)

type createTodoRequest struct {
	Task string `json:"task"`
}

// ListTodos returns every todo.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context())
	if err != nil {
		h.respondStoreError(w, r, "list", http.StatusInternalServerError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a todo from a {"task": "..."} body.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := models.ValidateTask(req.Task); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.store.CreateTodo(r.Context(), req.Task)
	if err != nil {
		h.respondStoreError(w, r, "create", http.StatusBadRequest, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, todo)
}

// UpdateTodo applies a partial {"task"?, "completed"?} update.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var patch models.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := patch.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.store.UpdateTodo(r.Context(), todoID(r), patch)
	if err != nil {
		h.respondStoreError(w, r, "update", http.StatusBadRequest, err)
		return
	}

	h.respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTodo(r.Context(), todoID(r)); err != nil {
		h.respondStoreError(w, r, "delete", http.StatusBadRequest, err)
		return
	}

	h.respondJSON(w, http.StatusOK, successResponse{Success: true})
}
