package reportshandler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/reports"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)
	r.With(read).Get("/reports/organization.pdf", h.handleOrganizationPDF)
}

func (h *Handler) handleOrganizationPDF(w http.ResponseWriter, r *http.Request) {
	// Render into a buffer so a failure can still produce a JSON error
	// instead of a truncated document.
	var buf bytes.Buffer
	if err := h.Service.OrganizationPDF(r.Context(), &buf); err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="organization-report.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
