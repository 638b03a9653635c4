package models

import (
	"time"
)

// Session is a tracked login instance. One row per login, kept for
// security review: logout marks it inactive instead of deleting it.
type Session struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AccountID  uint      `gorm:"not null;index" json:"account_id"`
	Token      string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	Active     bool      `gorm:"default:true;index" json:"active"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}

// IsStale returns true if the session has seen no activity for the given duration
func (s *Session) IsStale(maxIdle time.Duration) bool {
	return time.Since(s.LastSeenAt) > maxIdle
}

// SessionResponse is the JSON response format for sessions. The token
// itself is never echoed back.
type SessionResponse struct {
	ID         uint      `json:"id"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Active     bool      `json:"active"`
	Stale      bool      `json:"stale"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts Session to SessionResponse, flagging staleness
// against the given idle cutoff
func (s *Session) ToResponse(maxIdle time.Duration) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		IPAddress:  s.IPAddress,
		UserAgent:  s.UserAgent,
		Active:     s.Active,
		Stale:      s.IsStale(maxIdle),
		LastSeenAt: s.LastSeenAt,
		CreatedAt:  s.CreatedAt,
	}
}
