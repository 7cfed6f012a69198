package controllers

import (
	"net/http"

	"github.com/pluglog/pluglog/internal/runtime"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes.
type ControllerRegistry struct {
	general  *GeneralController
	entries  *EntriesController
	sessions *SessionsController
	tenants  *TenantsController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *logsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt, svc),
		entries:  NewEntriesController(rt, svc),
		sessions: NewSessionsController(svc),
		tenants:  NewTenantsController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.entries.RegisterRoutes(mux)
	r.sessions.RegisterRoutes(mux)
	r.tenants.RegisterRoutes(mux)
}
