package models

import (
	"time"
)

// Profile is the ERP-specific extension of an Account. Exactly one per
// account; cascade-deleted with it. EmployeeID is assigned once on first
// persist and write-protected afterwards.
type Profile struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AccountID  uint       `gorm:"uniqueIndex;not null" json:"account_id"`
	EmployeeID string     `gorm:"uniqueIndex;size:20" json:"employee_id"`
	RoleID     *uint      `json:"role_id"`
	ContactID  *uint      `json:"contact_id"`
	Department string     `gorm:"size:100" json:"department"`
	Position   string     `gorm:"size:100" json:"position"`
	HireDate   *time.Time `json:"hire_date"`
	Active     bool       `gorm:"default:true" json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations. Role is referenced, not owned: deleting a role that
	// profiles still point at is blocked at the store level.
	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	Role    *Role    `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT" json:"role,omitempty"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// HasRole returns true if the profile's role matches the given name.
// A profile without a role fails every check.
func (p *Profile) HasRole(name string) bool {
	if p == nil || p.Role == nil {
		return false
	}
	return p.Role.Name == name
}

// HasAnyRole returns true if the profile's role matches any of the given names
func (p *Profile) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if p.HasRole(name) {
			return true
		}
	}
	return false
}

// ProfileResponse is the JSON response format for profiles
type ProfileResponse struct {
	ID         uint          `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Role       *RoleResponse `json:"role"`
	Department string        `json:"department"`
	Position   string        `json:"position"`
	HireDate   *time.Time    `json:"hire_date"`
	Active     bool          `json:"active"`
}

// ToResponse converts Profile to ProfileResponse
func (p *Profile) ToResponse() ProfileResponse {
	resp := ProfileResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Department: p.Department,
		Position:   p.Position,
		HireDate:   p.HireDate,
		Active:     p.Active,
	}
	if p.Role != nil {
		r := p.Role.ToResponse()
		resp.Role = &r
	}
	return resp
}
