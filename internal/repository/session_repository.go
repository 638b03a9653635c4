package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
)

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	FindActiveByAccount(ctx context.Context, accountID uint) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Touch(ctx context.Context, id uint, at time.Time) error
	DeactivateByAccount(ctx context.Context, accountID uint) error
	DeactivateStale(ctx context.Context, idleBefore time.Time) (int64, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindActiveByAccount(ctx context.Context, accountID uint) (*models.Session, error) {
	var session models.Session
	err := GetDB(ctx, r.db).
		Where("account_id = ? AND active = ?", accountID, true).
		Order("last_seen_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return GetDB(ctx, r.db).Omit("Account").Create(session).Error
}

func (r *sessionRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return GetDB(ctx, r.db).Model(&models.Session{}).
		Where("id = ?", id).
		Update("last_seen_at", at.UTC()).Error
}

// DeactivateByAccount ends every active session for the account.
// Idempotent: zero affected rows is not an error.
func (r *sessionRepository) DeactivateByAccount(ctx context.Context, accountID uint) error {
	return GetDB(ctx, r.db).Model(&models.Session{}).
		Where("account_id = ? AND active = ?", accountID, true).
		Update("active", false).Error
}

func (r *sessionRepository) DeactivateStale(ctx context.Context, idleBefore time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&models.Session{}).
		Where("active = ? AND last_seen_at < ?", true, idleBefore.UTC()).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := GetDB(ctx, r.db).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}
