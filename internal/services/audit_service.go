package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// AuditService records append-only audit entries
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. changes may be nil; any non-nil value is
// serialized as the JSON change payload.
func (s *AuditService) Log(ctx context.Context, accountID *uint, action, targetType string, targetID uint, targetRepr string, changes any, ip, userAgent string) error {
	entry := &models.AuditLog{
		AccountID:  accountID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		TargetRepr: targetRepr,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if changes != nil {
		payload, err := json.Marshal(changes)
		if err != nil {
			logger.Warn("Failed to serialize audit changes", "action", action, "error", err)
		} else {
			entry.Changes = datatypes.JSON(payload)
		}
	}
	return s.repo.Create(ctx, entry)
}

// List retrieves audit entries, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
