package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
)

// ErrDuplicateUsername is returned when an account would reuse a taken username
var ErrDuplicateUsername = errors.New("an account with this username already exists")

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByIDWithProfile(ctx context.Context, id uint) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetActive(ctx context.Context, id uint, active bool) error
	List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error)
	FindAll(ctx context.Context) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := GetDB(ctx, r.db).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByIDWithProfile(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := GetDB(ctx, r.db).
		Preload("Profile").
		Preload("Profile.Role").
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := GetDB(ctx, r.db).
		Where("LOWER(username) = LOWER(?)", username).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := GetDB(ctx, r.db).Omit("Profile", "Sessions").Create(account).Error; err != nil {
		if isDuplicateKeyError(err, "idx_accounts_username") {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return GetDB(ctx, r.db).Omit("Profile", "Sessions").Save(account).Error
}

func (r *accountRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return GetDB(ctx, r.db).Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()).Error
}

func (r *accountRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return GetDB(ctx, r.db).Model(&models.Account{}).
		Where("id = ?", id).
		Update("active", active).Error
}

func (r *accountRepository) List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	db := GetDB(ctx, r.db).Model(&models.Account{})

	// Apply search
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			search, search, search, search)
	}

	// Apply active filter
	if query.Filters["active"] != "" {
		db = db.Where("active = ?", query.Filters["active"] == "true")
	}

	// Count total
	db.Count(&total)

	// Results are ordered by username ascending
	db = db.Order("username ASC")

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Profile").Preload("Profile.Role").Find(&accounts).Error
	return accounts, total, err
}

func (r *accountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := GetDB(ctx, r.db).
		Preload("Profile").
		Preload("Profile.Role").
		Order("username ASC").
		Find(&accounts).Error
	return accounts, err
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
