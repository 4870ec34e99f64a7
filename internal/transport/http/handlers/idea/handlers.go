package ideahandler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/idea"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *idea.Service
	Audit   *audit.Service
}

func NewHandler(service *idea.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

// Reads are public. Writes need a logged-in user; the service layer
// enforces that only the owner can modify or delete an idea.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ideas", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.With(middleware.RequireAuth).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequireAuth).Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	ideas, err := h.Service.List(r.Context(), limit)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if ideas == nil {
		ideas = []idea.Idea{}
	}
	api.Success(w, ideas, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	i, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, i, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload idea.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	i, err := h.Service.Create(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "idea.create", "idea", i.ID, nil, i)
	api.Created(w, i, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload idea.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	i, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "idea.update", "idea", i.ID, nil, i)
	api.Success(w, i, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "idea.delete", "idea", id, nil, nil)
	api.Success(w, map[string]any{
		"message": "Idea deleted successfully",
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, before, after any) {
	err := h.Audit.Record(r.Context(), actor.ID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
