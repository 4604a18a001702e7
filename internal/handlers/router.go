package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the handlers, middleware and the metrics endpoint.
// The todo routes are mounted at /todos and /api/todos.
func NewRouter(h *Handlers, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  h.logger.StandardLog(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(NewMetrics(reg).Middleware)

	r.Get("/", h.Home)
	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	todos := h.todoRoutes()
	r.Mount("/todos", todos)
	r.Mount("/api/todos", todos)

	return r
}

func (h *Handlers) todoRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTodos)
	r.Post("/", h.CreateTodo)
	r.Put("/{id}", h.UpdateTodo)
	r.Delete("/{id}", h.DeleteTodo)
	return r
}
