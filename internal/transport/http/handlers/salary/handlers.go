package salaryhandler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/salary"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *salary.Service
	Audit   *audit.Service
}

func NewHandler(service *salary.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	create := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	admin := middleware.RequireRole(auth.RoleAdmin)

	r.Route("/salary-components", func(r chi.Router) {
		r.With(read).Get("/", h.handleListComponents)
		r.With(read).Get("/list", h.handleComponentOptions)
		r.With(read).Get("/{id}", h.handleGetComponent)
		r.With(create).Post("/", h.handleCreateComponent)
		r.With(admin).Put("/{id}", h.handleUpdateComponent)
		r.With(admin).Patch("/{id}/status", h.handleUpdateComponentStatus)
		r.With(admin).Delete("/{id}", h.handleDeleteComponent)
	})

	r.Route("/salary-policies", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPolicies)
		r.With(read).Get("/list", h.handlePolicyOptions)
		r.With(read).Get("/{id}", h.handleGetPolicy)
		r.With(create).Post("/", h.handleCreatePolicy)
		r.With(admin).Put("/{id}", h.handleUpdatePolicy)
		r.With(admin).Patch("/{id}/status", h.handleUpdatePolicyStatus)
		r.With(admin).Delete("/{id}", h.handleDeletePolicy)
	})
}

func (h *Handler) handleListComponents(w http.ResponseWriter, r *http.Request) {
	p := shared.ParsePagination(r, 10, 100)
	components, total, err := h.Service.ListComponents(r.Context(), r.URL.Query().Get("search"), p.Limit, p.Offset())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if components == nil {
		components = []salary.Component{}
	}
	api.Success(w, map[string]any{
		"salaryComponents": components,
		"pagination":       shared.Meta(p, total, "totalSalaryComponents"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComponentOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.ComponentOptions(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []salary.Option{}
	}
	api.Success(w, options, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetComponent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateComponent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload salary.ComponentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	c, err := h.Service.CreateComponent(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_component.create", "salary_component", c.ID, nil, c)
	api.Created(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload salary.ComponentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	c, err := h.Service.UpdateComponent(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_component.update", "salary_component", c.ID, nil, c)
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateComponentStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	c, message, err := h.Service.UpdateComponentStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_component.status", "salary_component", c.ID, nil, c)
	api.Success(w, map[string]any{
		"message":         message,
		"salaryComponent": c,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteComponent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	c, err := h.Service.DeleteComponent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_component.delete", "salary_component", c.ID, c, nil)
	api.Success(w, map[string]any{
		"message":                "Salary component deleted successfully",
		"deletedSalaryComponent": map[string]string{"id": c.ID, "name": c.Name},
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
		policies = []salary.Policy{}
	}
	api.Success(w, map[string]any{
		"salaryPolicies": policies,
		"pagination":     shared.Meta(p, total, "totalSalaryPolicies"),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePolicyOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.PolicyOptions(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	if options == nil {
		options = []salary.Option{}
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
	var payload salary.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	p, err := h.Service.CreatePolicy(r.Context(), actor, payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_policy.create", "salary_policy", p.ID, nil, p)
	api.Created(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	var payload salary.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	p, err := h.Service.UpdatePolicy(r.Context(), actor, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_policy.update", "salary_policy", p.ID, nil, p)
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
	h.record(r, actor, "salary_policy.status", "salary_policy", p.ID, nil, p)
	api.Success(w, map[string]any{
		"message":      message,
		"salaryPolicy": p,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	p, err := h.Service.DeletePolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, actor, "salary_policy.delete", "salary_policy", p.ID, p, nil)
	api.Success(w, map[string]any{
		"message":             "Salary policy deleted successfully",
		"deletedSalaryPolicy": map[string]string{"id": p.ID, "name": p.Name},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, before, after any) {
	err := h.Audit.Record(r.Context(), actor.ID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		log.Printf("audit %s failed: %v", action, err)
	}
}
