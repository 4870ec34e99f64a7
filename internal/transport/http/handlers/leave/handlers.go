package leavehandler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	create := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	admin := middleware.RequireRole(auth.RoleAdmin)

	r.Route("/leave-types", func(r chi.Router) {
		r.With(read).Get("/", h.handleListLeaveTypes)
		r.With(read).Get("/list", h.handleLeaveTypeOptions)
		r.With(read).Get("/{id}", h.handleGetLeaveType)
		r.With(admin).Post("/", h.handleCreateLeaveType)
		r.With(admin).Put("/{id}", h.handleUpdateLeaveType)
		r.With(admin).Delete("/{id}", h.handleDeleteLeaveType)
	})

	r.Route("/leave-policies", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPolicies)
		r.With(read).Get("/list", h.handlePolicyOptions)
		r.With(read).Get("/{id}", h.handleGetPolicy)
		r.With(create).Post("/", h.handleCreatePolicy)
		r.With(admin).Put("/{id}", h.handleUpdatePolicy)
		r.With(admin).Patch("/{id}/status", h.handleUpdatePolicyStatus)
		r.With(admin).Delete("/{id}", h.handleDeletePolicy)
	})
}

func (h *Handler) handleListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	types, total, err := h.Service.ListLeaveTypes(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if types == nil {
		types = []leave.LeaveType{}
	}
	api.Success(w, map[string]any{
		"leaveTypes": types,
		"pagination": shared.Meta(p, total, "totalLeaveTypes"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveTypeOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.LeaveTypeOptions(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []leave.Option{}
	}
	api.Success(w, options, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetLeaveType(w http.ResponseWriter, r *http.Request) {
	lt, err := h.Service.GetLeaveType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, lt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateLeaveType(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload leave.LeaveTypeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	lt, err := h.Service.CreateLeaveType(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_type.create", "leave_type", lt.ID, nil, lt)
	api.Created(w, lt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload leave.LeaveTypeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	lt, err := h.Service.UpdateLeaveType(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_type.update", "leave_type", lt.ID, nil, lt)
	api.Success(w, lt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	lt, err := h.Service.DeleteLeaveType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_type.delete", "leave_type", lt.ID, lt, nil)
	api.Success(w, map[string]any{
		"message":          "Leave type deleted successfully",
		"deletedLeaveType": map[string]string{"id": lt.ID, "name": lt.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	policies, total, err := h.Service.ListPolicies(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if policies == nil {
		policies = []leave.Policy{}
	}
	api.Success(w, map[string]any{
		"leavePolicies": policies,
		"pagination":    shared.Meta(p, total, "totalLeavePolicies"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePolicyOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.PolicyOptions(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []leave.Option{}
	}
	api.Success(w, options, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload leave.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	p, err := h.Service.CreatePolicy(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_policy.create", "leave_policy", p.ID, nil, p)
	api.Created(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload leave.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	p, err := h.Service.UpdatePolicy(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_policy.update", "leave_policy", p.ID, nil, p)
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePolicyStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	p, message, err := h.Service.UpdatePolicyStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_policy.status", "leave_policy", p.ID, nil, p)
	api.Success(w, map[string]any{
		"message":     message,
		"leavePolicy": p,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	p, err := h.Service.DeletePolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "leave_policy.delete", "leave_policy", p.ID, p, nil)
	api.Success(w, map[string]any{
		"message":            "Leave policy deleted successfully",
		"deletedLeavePolicy": map[string]string{"id": p.ID, "name": p.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, before, after any) {
	err := h.Audit.Record(r.Context(), actor.ID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
