package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
)

func TestRoleService_EnsureDefaultRoles_Idempotent(t *testing.T) {
	existing := make(map[string]*models.Role)
	var nextID uint

	mockRepo := &mockRoleRepo{
		mockFindByName: func(ctx context.Context, name string) (*models.Role, error) {
			if role, ok := existing[name]; ok {
				return role, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		mockCreate: func(ctx context.Context, role *models.Role) error {
			nextID++
			role.ID = nextID
			existing[role.Name] = role
			return nil
		},
	}
	service := NewRoleService(mockRepo)

	assert.NoError(t, service.EnsureDefaultRoles(context.Background()))
	assert.Len(t, existing, 6)

	// Second run creates nothing new
	assert.NoError(t, service.EnsureDefaultRoles(context.Background()))
	assert.Len(t, existing, 6)
}

func TestRoleService_EnsureDefaultRoles_KeepsExistingDescriptions(t *testing.T) {
	customized := &models.Role{ID: 1, Name: models.RoleAdmin, DisplayName: "Root", Description: "customized"}
	existing := map[string]*models.Role{models.RoleAdmin: customized}

	mockRepo := &mockRoleRepo{
		mockFindByName: func(ctx context.Context, name string) (*models.Role, error) {
			if role, ok := existing[name]; ok {
				return role, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		mockCreate: func(ctx context.Context, role *models.Role) error {
			existing[role.Name] = role
			return nil
		},
	}
	service := NewRoleService(mockRepo)

	assert.NoError(t, service.EnsureDefaultRoles(context.Background()))
	assert.Equal(t, "Root", existing[models.RoleAdmin].DisplayName)
	assert.Equal(t, "customized", existing[models.RoleAdmin].Description)
	assert.Len(t, existing, 6)
}

func TestRoleService_Delete_BlockedWhileReferenced(t *testing.T) {
	mockRepo := &mockRoleRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Role, error) {
			return &models.Role{ID: id, Name: models.RoleSales}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			return repository.ErrRoleInUse
		},
	}
	service := NewRoleService(mockRepo)

	err := service.Delete(context.Background(), 2)
	assert.ErrorIs(t, err, repository.ErrRoleInUse)
}

func TestRoleService_Delete_UnknownRole(t *testing.T) {
	mockRepo := &mockRoleRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Role, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewRoleService(mockRepo)

	err := service.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoleService_DefaultCatalogNames(t *testing.T) {
	names := make(map[string]bool)
	for _, def := range defaultRoles {
		names[def.Name] = true
	}
	assert.Len(t, names, 6)
	for _, want := range []string{
		models.RoleAdmin, models.RoleSales, models.RoleWarehouse,
		models.RoleAudit, models.RolePurchasing, models.RoleAccounting,
	} {
		assert.True(t, names[want], "missing role %s", want)
	}
}
