package orghandler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/org"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
	Audit   *audit.Service
}

func NewHandler(service *org.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	write := middleware.RequireRole(auth.RoleAdmin)

	r.Route("/departments", func(r chi.Router) {
		r.With(read).Get("/", h.handleListDepartments)
		r.With(read).Get("/list", h.handleDepartmentOptions)
		r.With(read).Get("/{id}", h.handleGetDepartment)
		r.With(write).Post("/", h.handleCreateDepartment)
		r.With(write).Put("/{id}", h.handleUpdateDepartment)
		r.With(write).Delete("/{id}", h.handleDeleteDepartment)
	})

	r.Route("/positions", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPositions)
		r.With(read).Get("/{id}", h.handleGetPosition)
		r.With(write).Post("/", h.handleCreatePosition)
		r.With(write).Put("/{id}", h.handleUpdatePosition)
		r.With(write).Delete("/{id}", h.handleDeletePosition)
	})
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	departments, total, err := h.Service.ListDepartments(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if departments == nil {
		departments = []org.Department{}
	}
	api.Success(w, map[string]any{
		"departments": departments,
		"pagination":  shared.Meta(p, total, "totalDepartments"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartmentOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.DepartmentOptions(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []org.Option{}
	}
	api.Success(w, options, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	dep, err := h.Service.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload org.DepartmentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	dep, err := h.Service.CreateDepartment(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "department.create", "department", dep.ID, nil, dep)
	api.Created(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload org.DepartmentUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	dep, err := h.Service.UpdateDepartment(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "department.update", "department", dep.ID, nil, dep)
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	dep, err := h.Service.DeleteDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "department.delete", "department", dep.ID, dep, nil)
	api.Success(w, map[string]any{
		"message":           "Department deleted successfully",
		"deletedDepartment": map[string]string{"id": dep.ID, "name": dep.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	positions, total, err := h.Service.ListPositions(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if positions == nil {
		positions = []org.Position{}
	}
	api.Success(w, map[string]any{
		"positions":  positions,
		"pagination": shared.Meta(p, total, "totalPositions"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.Service.GetPosition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, pos, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload org.PositionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	pos, err := h.Service.CreatePosition(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "position.create", "position", pos.ID, nil, pos)
	api.Created(w, pos, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload org.PositionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	pos, err := h.Service.UpdatePosition(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "position.update", "position", pos.ID, nil, pos)
	api.Success(w, pos, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	pos, err := h.Service.DeletePosition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "position.delete", "position", pos.ID, pos, nil)
	api.Success(w, map[string]any{
		"message":         "Position deleted successfully",
		"deletedPosition": map[string]string{"id": pos.ID, "name": pos.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, before, after any) {
	err := h.Audit.Record(r.Context(), actor.ID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
