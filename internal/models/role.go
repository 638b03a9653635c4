package models

import (
	"time"
)

// Role is a fixed named permission bundle assigned to profiles
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;size:50;not null" json:"name"`
	DisplayName string       `gorm:"size:100" json:"display_name"`
	Description string       `gorm:"type:text" json:"description"`
	Active      bool         `gorm:"default:true" json:"active"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Role
func (Role) TableName() string {
	return "roles"
}

// Permission is a single capability that can be attached to roles
type Permission struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Code  string `gorm:"uniqueIndex;size:100;not null" json:"code"` // e.g. "users.write"
	Name  string `gorm:"size:255;not null" json:"name"`
	Group string `gorm:"size:50;not null;index" json:"group"`
}

// TableName specifies the table name for Permission
func (Permission) TableName() string {
	return "permissions"
}

// Role name constants (fixed catalog, seeded at setup time)
const (
	RoleAdmin      = "ADMIN"
	RoleSales      = "SALES"
	RoleWarehouse  = "WAREHOUSE"
	RoleAudit      = "AUDIT"
	RolePurchasing = "PURCHASING"
	RoleAccounting = "ACCOUNTING"
)

// RoleResponse is the JSON response format for roles
type RoleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// ToResponse converts Role to RoleResponse
func (r *Role) ToResponse() RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
	}
}
