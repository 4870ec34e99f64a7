package shifthandler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/shift"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *shift.Service
	Audit   *audit.Service
}

func NewHandler(service *shift.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	create := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	admin := middleware.RequireRole(auth.RoleAdmin)

	r.Route("/shifts", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(read).Get("/list", h.handleOptions)
		r.With(read).Get("/{id}", h.handleGet)
		r.With(create).Post("/", h.handleCreate)
		r.With(admin).Put("/{id}", h.handleUpdate)
		r.With(admin).Patch("/{id}/status", h.handleUpdateStatus)
		r.With(admin).Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	shifts, total, err := h.Service.List(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if shifts == nil {
		shifts = []shift.Shift{}
	}
	api.Success(w, map[string]any{
		"shifts":     shifts,
		"pagination": shared.Meta(p, total, "totalShifts"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.Options(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []shift.Option{}
	}
	api.Success(w, options, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sh, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sh, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload shift.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sh, err := h.Service.Create(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "shift.create", "shift", sh.ID, nil, sh)
	api.Created(w, sh, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload shift.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sh, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "shift.update", "shift", sh.ID, nil, sh)
	api.Success(w, sh, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sh, message, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "shift.status", "shift", sh.ID, nil, sh)
	api.Success(w, map[string]any{
		"message": message,
		"shift":   sh,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	sh, err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "shift.delete", "shift", sh.ID, sh, nil)
	api.Success(w, map[string]any{
		"message":      "Shift deleted successfully",
		"deletedShift": map[string]string{"id": sh.ID, "name": sh.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, before, after any) {
	err := h.Audit.Record(r.Context(), actor.ID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
