package models

import (
	"time"
)

// Account represents an authenticatable identity in the system
type Account struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"uniqueIndex;not null" json:"username"`
	EncryptedPassword string     `gorm:"column:encrypted_password;not null" json:"-"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Active            bool       `gorm:"default:true" json:"active"`
	Staff             bool       `gorm:"default:false" json:"staff"`
	Superuser         bool       `gorm:"default:false" json:"superuser"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Profile  *Profile  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Sessions []Session `gorm:"foreignKey:AccountID" json:"sessions,omitempty"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// FullName returns the concatenated first and last name
func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// IsActive returns true if the account can authenticate
func (a *Account) IsActive() bool {
	return a.Active
}

// AccountResponse is the JSON response format for accounts
type AccountResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Active      bool       `json:"active"`
	Staff       bool       `json:"staff"`
	Superuser   bool       `json:"superuser"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Merged profile summary. Explicit nulls when the account has no
	// profile or the profile has no role.
	EmployeeID *string `json:"employee_id"`
	Role       *string `json:"role"`
	RoleName   *string `json:"role_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

// ToResponse converts Account to AccountResponse, merging profile fields.
// Missing profile or role yields explicit nulls rather than omitted keys.
func (a *Account) ToResponse() AccountResponse {
	resp := AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		Active:      a.Active,
		Staff:       a.Staff,
		Superuser:   a.Superuser,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if p := a.Profile; p != nil {
		if p.EmployeeID != "" {
			resp.EmployeeID = &p.EmployeeID
		}
		if p.Department != "" {
			resp.Department = &p.Department
		}
		if p.Position != "" {
			resp.Position = &p.Position
		}
		if p.Role != nil {
			resp.Role = &p.Role.Name
			resp.RoleName = &p.Role.DisplayName
		}
	}
	return resp
}
