package handlers

import (
	"github.com/rmedina/erp-admin-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Account *AccountHandler
	Role    *RoleHandler
	Audit   *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth, svcs.Account),
		Account: NewAccountHandler(svcs.Account, svcs.Auth, svcs.Export),
		Role:    NewRoleHandler(svcs.Role),
		Audit:   NewAuditHandler(svcs.Audit, svcs.Profile),
	}
}
