package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
)

// ErrRoleInUse is returned when deleting a role that profiles still reference
var ErrRoleInUse = errors.New("role is referenced by existing profiles")

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id uint) error
	ListActive(ctx context.Context) ([]models.Role, error)
	Count(ctx context.Context) (int64, error)
	FindOrCreatePermission(ctx context.Context, perm *models.Permission) error
	ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := GetDB(ctx, r.db).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return GetDB(ctx, r.db).Omit("Permissions").Create(role).Error
}

// Delete removes a role. Blocked while any profile references it.
func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)

	var refs int64
	if err := db.Model(&models.Profile{}).Where("role_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrRoleInUse
	}
	return db.Delete(&models.Role{}, id).Error
}

func (r *roleRepository) ListActive(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := GetDB(ctx, r.db).
		Where("active = ?", true).
		Order("name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Role{}).Count(&count).Error
	return count, err
}

func (r *roleRepository) FindOrCreatePermission(ctx context.Context, perm *models.Permission) error {
	return GetDB(ctx, r.db).
		Where("code = ?", perm.Code).
		FirstOrCreate(perm).Error
}

func (r *roleRepository) ReplacePermissions(ctx context.Context, role *models.Role, perms []models.Permission) error {
	return GetDB(ctx, r.db).Model(role).Association("Permissions").Replace(perms)
}
