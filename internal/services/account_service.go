package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// bootstrapEmployeeID is the fixed employee id of the setup-created administrator
const bootstrapEmployeeID = "EMP001"

// AccountService handles account management. Every mutation is gated on
// the acting account carrying the ADMIN role and runs inside a single
// transaction so account and profile changes commit together.
type AccountService struct {
	repo       repository.AccountRepository
	profileSvc *ProfileService
	auditSvc   *AuditService
	tx         repository.TransactionManager
}

// NewAccountService creates a new account service
func NewAccountService(repo repository.AccountRepository, profileSvc *ProfileService, auditSvc *AuditService, tx repository.TransactionManager) *AccountService {
	return &AccountService{
		repo:       repo,
		profileSvc: profileSvc,
		auditSvc:   auditSvc,
		tx:         tx,
	}
}

// CreateAccountRequest carries the fields for a new account. Profile
// data is optional; when present the profile is created in the same
// transaction as the account.
type CreateAccountRequest struct {
	Username  string         `json:"username"`
	Password  string         `json:"password"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Staff     bool           `json:"staff"`
	Profile   *ProfileUpdate `json:"profile"`
}

// UpdateAccountRequest names every mutable account field, each
// independently optional. Nil means "leave unchanged".
type UpdateAccountRequest struct {
	Email     *string        `json:"email"`
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Password  *string        `json:"password"`
	Staff     *bool          `json:"staff"`
	Profile   *ProfileUpdate `json:"profile"`
}

// requireAdmin verifies that the actor's profile carries the ADMIN role
// before any mutation is attempted.
func (s *AccountService) requireAdmin(ctx context.Context, actorID uint) error {
	isAdmin, err := s.profileSvc.HasRole(ctx, actorID, models.RoleAdmin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrPermissionDenied
	}
	return nil
}

// FindByID returns an account with its profile and role preloaded
func (s *AccountService) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.repo.FindByIDWithProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// List returns accounts matching the query, ordered by username
func (s *AccountService) List(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return s.repo.List(ctx, query)
}

// Create creates an account and, when profile data is supplied, its
// profile inside the same transaction. ADMIN only.
func (s *AccountService) Create(ctx context.Context, req *CreateAccountRequest, actorID uint) (*models.Account, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:          req.Username,
		EncryptedPassword: hashed,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Active:            true,
		Staff:             req.Staff,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// The account row is persisted first so employee id generation
		// has a durable identifier to work from.
		if err := s.repo.Create(txCtx, account); err != nil {
			return err
		}

		var roleID *uint
		if req.Profile != nil {
			roleID = req.Profile.RoleID
		}
		profile, err := s.profileSvc.CreateForAccount(txCtx, account, roleID)
		if err != nil {
			return err
		}
		if req.Profile != nil {
			if err := s.profileSvc.Apply(txCtx, profile, req.Profile); err != nil {
				return err
			}
		}
		account.Profile = profile

		return s.auditSvc.Log(txCtx, &actorID, models.AuditActionCreate, "Account", account.ID,
			account.Username, map[string]string{"username": account.Username, "email": account.Email}, "", "")
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, account.ID)
}

// Update applies a typed partial update to the account and upserts its
// profile fields in the same transaction. ADMIN only.
func (s *AccountService) Update(ctx context.Context, id uint, req *UpdateAccountRequest, actorID uint) (*models.Account, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	account, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Staff != nil {
		account.Staff = *req.Staff
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, ErrPasswordRequired
		}
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		account.EncryptedPassword = hashed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, account); err != nil {
			return err
		}
		if req.Profile != nil {
			profile := account.Profile
			if profile == nil {
				// Accounts predating profile auto-creation get one on first update
				created, err := s.profileSvc.CreateForAccount(txCtx, account, nil)
				if err != nil {
					return err
				}
				profile = created
			}
			if err := s.profileSvc.Apply(txCtx, profile, req.Profile); err != nil {
				return err
			}
		}
		return s.auditSvc.Log(txCtx, &actorID, models.AuditActionUpdate, "Account", account.ID,
			account.Username, req, "", "")
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Activate re-enables an account and its profile together
func (s *AccountService) Activate(ctx context.Context, id uint, actorID uint) error {
	return s.setActive(ctx, id, actorID, true)
}

// Deactivate soft-disables an account and its profile together.
// Accounts are never hard-deleted; this is the delete path.
func (s *AccountService) Deactivate(ctx context.Context, id uint, actorID uint) error {
	return s.setActive(ctx, id, actorID, false)
}

func (s *AccountService) setActive(ctx context.Context, id uint, actorID uint, active bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	action := models.AuditActionDeactivate
	if active {
		action = models.AuditActionActivate
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.SetActive(txCtx, id, active); err != nil {
			return err
		}
		// Absence of a profile is not an error; the flag pair moves together when both exist
		if account.Profile != nil {
			if err := s.profileSvc.repo.SetActive(txCtx, id, active); err != nil {
				return err
			}
		}
		return s.auditSvc.Log(txCtx, &actorID, action, "Account", id,
			account.Username, map[string]bool{"active": active}, "", "")
	})
}

// ResetPassword sets a new password on behalf of an administrator
func (s *AccountService) ResetPassword(ctx context.Context, id uint, newPassword string, actorID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.EncryptedPassword = hashed
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	if err := s.auditSvc.Log(ctx, &actorID, models.AuditActionResetPassword, "Account", id, account.Username, nil, "", ""); err != nil {
		logger.Warn("Failed to write password reset audit entry", "account_id", id, "error", err)
	}
	return nil
}

// EnsureAdminAccount creates the bootstrap administrator with the fixed
// employee id when the username is absent. Idempotent, used by cmd/setup.
func (s *AccountService) EnsureAdminAccount(ctx context.Context, username, password string, adminRoleID uint) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// A renamed admin account still holds the fixed employee id
	if _, err := s.profileSvc.repo.FindByEmployeeID(ctx, bootstrapEmployeeID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account := &models.Account{
			Username:          username,
			EncryptedPassword: hashed,
			Active:            true,
			Staff:             true,
			Superuser:         true,
		}
		if err := s.repo.Create(txCtx, account); err != nil {
			return err
		}
		profile := &models.Profile{
			AccountID:  account.ID,
			EmployeeID: bootstrapEmployeeID,
			RoleID:     &adminRoleID,
			Active:     true,
		}
		if err := s.profileSvc.repo.Create(txCtx, profile); err != nil {
			return fmt.Errorf("create admin profile: %w", err)
		}
		return nil
	})
}
