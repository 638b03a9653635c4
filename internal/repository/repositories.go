package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Account  AccountRepository
	Profile  ProfileRepository
	Role     RoleRepository
	Session  SessionRepository
	AuditLog AuditLogRepository
	Tx       TransactionManager
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:  NewAccountRepository(db),
		Profile:  NewProfileRepository(db),
		Role:     NewRoleRepository(db),
		Session:  NewSessionRepository(db),
		AuditLog: NewAuditLogRepository(db),
		Tx:       NewTransactionManager(db),
	}
}
