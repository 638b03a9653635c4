package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// ProfileService manages the 1:1 profile extension of accounts,
// including employee identifier assignment.
type ProfileService struct {
	repo     repository.ProfileRepository
	roleRepo repository.RoleRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo repository.ProfileRepository, roleRepo repository.RoleRepository) *ProfileService {
	return &ProfileService{repo: repo, roleRepo: roleRepo}
}

// GenerateEmployeeID derives the employee identifier from the creation
// year and the owning account's numeric id, zero-padded to 4 digits.
// Year 2025 and account id 42 yield "20250042".
func GenerateEmployeeID(year int, accountID uint) string {
	return fmt.Sprintf("%d%04d", year, accountID)
}

// CreateForAccount creates the profile for a freshly created account.
// The account row must already carry its identifier, since the employee
// id is derived from it. Called once per account, right after account
// creation, inside the same transaction.
func (s *ProfileService) CreateForAccount(ctx context.Context, account *models.Account, roleID *uint) (*models.Profile, error) {
	if account.ID == 0 {
		return nil, errors.New("account must be persisted before its profile")
	}

	profile := &models.Profile{
		AccountID:  account.ID,
		EmployeeID: GenerateEmployeeID(time.Now().Year(), account.ID),
		Active:     true,
	}
	if rid := s.resolveRole(ctx, roleID); rid != nil {
		profile.RoleID = rid
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByAccount returns the account's profile, or nil without error when none exists
func (s *ProfileService) FindByAccount(ctx context.Context, accountID uint) (*models.Profile, error) {
	profile, err := s.repo.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// ProfileUpdate names every mutable profile field, each independently optional
type ProfileUpdate struct {
	RoleID     *uint      `json:"role_id"`
	ContactID  *uint      `json:"contact_id"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	HireDate   *time.Time `json:"hire_date"`
	EmployeeID *string    `json:"employee_id"`
}

// Apply merges the update into an existing profile. EmployeeID is
// write-protected: any attempt to change an assigned identifier fails.
// An unresolvable role id leaves the existing role unchanged.
func (s *ProfileService) Apply(ctx context.Context, profile *models.Profile, upd *ProfileUpdate) error {
	if upd.EmployeeID != nil && profile.EmployeeID != "" && *upd.EmployeeID != profile.EmployeeID {
		return ErrEmployeeIDImmutable
	}
	if rid := s.resolveRole(ctx, upd.RoleID); rid != nil {
		profile.RoleID = rid
		profile.Role = nil
	}
	if upd.ContactID != nil {
		profile.ContactID = upd.ContactID
	}
	if upd.Department != nil {
		profile.Department = *upd.Department
	}
	if upd.Position != nil {
		profile.Position = *upd.Position
	}
	if upd.HireDate != nil {
		profile.HireDate = upd.HireDate
	}
	return s.repo.Update(ctx, profile)
}

// resolveRole returns the role id when it exists, nil otherwise. A bad
// reference is skipped with a warning instead of failing the mutation.
func (s *ProfileService) resolveRole(ctx context.Context, roleID *uint) *uint {
	if roleID == nil {
		return nil
	}
	if _, err := s.roleRepo.FindByID(ctx, *roleID); err != nil {
		logger.Warn("Ignoring unresolvable role reference", "role_id", *roleID)
		return nil
	}
	return roleID
}

// HasRole reports whether the account's profile carries the named role
func (s *ProfileService) HasRole(ctx context.Context, accountID uint, roleName string) (bool, error) {
	profile, err := s.FindByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	return profile.HasRole(roleName), nil
}

// HasAnyRole reports whether the account's profile carries one of the named roles
func (s *ProfileService) HasAnyRole(ctx context.Context, accountID uint, roleNames ...string) (bool, error) {
	profile, err := s.FindByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	return profile.HasAnyRole(roleNames...), nil
}
