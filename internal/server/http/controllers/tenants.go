package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/pluglog/pluglog/internal/logdir"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
)

// TenantsController handles tenant listing, log listing, and purge.
type TenantsController struct {
	svc *logsvc.Service
}

// NewTenantsController creates a new tenants controller.
func NewTenantsController(svc *logsvc.Service) *TenantsController {
	return &TenantsController{svc: svc}
}

// RegisterRoutes registers tenant routes with the given mux.
func (c *TenantsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/tenants", c.handleList)
	mux.HandleFunc("/v1/tenants/logs", c.handleListLogs)
	mux.HandleFunc("/v1/tenants/purge", c.handlePurge)
}

// handleList lists all registered tenants ordered by name.
func (c *TenantsController) handleList(w http.ResponseWriter, r *http.Request) {
	tenants, err := c.svc.ListTenants()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants")
		return
	}
	writeJSON(w, map[string]any{"tenants": tenants})
}

// handleListLogs lists a tenant's logs, with sessions when requested.
func (c *TenantsController) handleListLogs(w http.ResponseWriter, r *http.Request) {
	tenantName := r.URL.Query().Get("tenant")
	if tenantName == "" {
		writeError(w, http.StatusBadRequest, "tenant is required")
		return
	}
	withSessions := parseBool(r.URL.Query().Get("sessions"))
	docs, err := c.svc.ListLogs(tenantName, withSessions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs")
		return
	}
	writeJSON(w, map[string]any{"tenant": tenantName, "logs": docViewsOf(docs)})
}

// handlePurge removes all of a tenant's logs, sessions, and entries.
func (c *TenantsController) handlePurge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req purgeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Tenant == "" {
		writeError(w, http.StatusBadRequest, "tenant is required")
		return
	}
	stats, err := c.svc.Purge(r.Context(), req.Tenant)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, stats)
}

func docViewsOf(docs []logdir.Doc) []docView {
	out := make([]docView, 0, len(docs))
	for _, d := range docs {
		v := docView{
			ID:          d.ID.String(),
			Tenant:      d.Tenant,
			Slug:        d.Slug,
			Title:       d.Title,
			CreatedAtMs: d.CreatedAtMs,
			EndedAtMs:   d.EndedAtMs,
		}
		if d.IsSession() {
			v.Parent = d.Parent.String()
		}
		out = append(out, v)
	}
	return out
}
