package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
)

// ErrDuplicateEmployeeID is returned when a profile would reuse an
// employee identifier already assigned to another profile.
var ErrDuplicateEmployeeID = errors.New("a profile with this employee id already exists")

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	FindByAccountID(ctx context.Context, accountID uint) (*models.Profile, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	SetActive(ctx context.Context, accountID uint, active bool) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByAccountID(ctx context.Context, accountID uint) (*models.Profile, error) {
	var profile models.Profile
	err := GetDB(ctx, r.db).
		Preload("Role").
		Where("account_id = ?", accountID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*models.Profile, error) {
	var profile models.Profile
	err := GetDB(ctx, r.db).
		Preload("Role").
		Where("employee_id = ?", employeeID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := GetDB(ctx, r.db).Omit("Account", "Role").Create(profile).Error; err != nil {
		if isDuplicateKeyError(err, "idx_profiles_employee_id") {
			return ErrDuplicateEmployeeID
		}
		return err
	}
	return nil
}

// Update persists profile changes. EmployeeID is write-protected after
// assignment, so it is always omitted from the update set.
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return GetDB(ctx, r.db).
		Omit("Account", "Role", "employee_id", "account_id").
		Save(profile).Error
}

func (r *profileRepository) SetActive(ctx context.Context, accountID uint, active bool) error {
	return GetDB(ctx, r.db).Model(&models.Profile{}).
		Where("account_id = ?", accountID).
		Update("active", active).Error
}
