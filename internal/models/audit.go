package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an append-only record of an action taken against some
// entity. Write-once: there is no update or delete path. The acting
// account is nulled if it is later removed.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AccountID  *uint          `gorm:"index" json:"account_id"`
	Action     string         `gorm:"size:50;not null;index" json:"action"` // CREATE, UPDATE, LOGIN, ...
	TargetType string         `gorm:"size:50" json:"target_type"`           // Account, Profile, Role, ...
	TargetID   uint           `json:"target_id"`
	TargetRepr string         `gorm:"size:255" json:"target_repr"`
	Changes    datatypes.JSON `json:"changes"`
	IPAddress  string         `gorm:"size:45" json:"ip_address"`
	UserAgent  string         `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`

	// Associations
	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:SET NULL" json:"account,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionCreate        = "CREATE"
	AuditActionUpdate        = "UPDATE"
	AuditActionActivate      = "ACTIVATE"
	AuditActionDeactivate    = "DEACTIVATE"
	AuditActionResetPassword = "RESET_PASSWORD"
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
)
