package services

import (
	"github.com/rmedina/erp-admin-api/internal/config"
	"github.com/rmedina/erp-admin-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	Account *AccountService
	Profile *ProfileService
	Role    *RoleService
	Audit   *AuditService
	Export  *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.AuditLog)
	profileSvc := NewProfileService(repos.Profile, repos.Role)

	return &Services{
		Auth:    NewAuthService(repos.Account, repos.Session, auditSvc, cfg),
		Account: NewAccountService(repos.Account, profileSvc, auditSvc, repos.Tx),
		Profile: profileSvc,
		Role:    NewRoleService(repos.Role),
		Audit:   auditSvc,
		Export:  NewExportService(repos.Account),
	}
}
