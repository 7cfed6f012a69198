package controllers

import (
	"net/http"

	"github.com/pluglog/pluglog/internal/runtime"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
)

// GeneralController handles health and version endpoints.
type GeneralController struct {
	rt  *runtime.Runtime
	svc *logsvc.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, svc *logsvc.Service) *GeneralController {
	return &GeneralController{rt: rt, svc: svc}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/version", c.handleVersion)
}

// handleHealth returns 200 with {"status": "ok"} when the store responds,
// 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (c *GeneralController) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": c.svc.Version()})
}
