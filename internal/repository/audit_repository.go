package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
)

// AuditLogRepository defines the interface for audit log data access.
// Entries are write-once: there is no update or delete method.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return GetDB(ctx, r.db).Omit("Account").Create(entry).Error
}

func (r *auditLogRepository) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := db.Preload("Account").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs)
	return logs, total, result.Error
}
