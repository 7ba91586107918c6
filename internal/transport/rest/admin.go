package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/internal/service/tenant"
)

type tenantService interface {
	Provision(ctx context.Context, input tenant.ProvisionInput) (domain.ProvisionedTenant, error)
	Get(ctx context.Context, id string) (domain.Tenant, error)
}

// AdminHandler serves tenant provisioning endpoints. Routes must be wrapped
// in the AdminKey middleware.
type AdminHandler struct {
	tenants tenantService
	log     *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(tenants tenantService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		tenants: tenants,
		log:     logger.With("handler", "admin"),
	}
}

// CreateTenant handles POST /admin/tenants. The client secret appears only
// in this response.
func (h *AdminHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req provisionTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	out, err := h.tenants.Provision(r.Context(), tenant.ProvisionInput{Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := toTenantResponse(out.Tenant)
	resp.ClientID = out.Client.ClientID
	resp.ClientSecret = out.Client.ClientSecret
	writeJSON(w, http.StatusCreated, resp)
}

// GetTenant handles GET /admin/tenants/{id}.
func (h *AdminHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenants.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenantResponse(t))
}
