package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/config"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
)

type mockAccountRepo struct {
	repository.AccountRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.Account, error)
	mockFindByIDWithProfile func(ctx context.Context, id uint) (*models.Account, error)
	mockFindByUsername      func(ctx context.Context, username string) (*models.Account, error)
	mockCreate              func(ctx context.Context, account *models.Account) error
	mockUpdate              func(ctx context.Context, account *models.Account) error
	mockSetActive           func(ctx context.Context, id uint, active bool) error
	mockList                func(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockAccountRepo) FindByIDWithProfile(ctx context.Context, id uint) (*models.Account, error) {
	return m.mockFindByIDWithProfile(ctx, id)
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return m.mockFindByUsername(ctx, username)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	return m.mockCreate(ctx, account)
}

func (m *mockAccountRepo) Update(ctx context.Context, account *models.Account) error {
	return m.mockUpdate(ctx, account)
}

func (m *mockAccountRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return nil
}

func (m *mockAccountRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return m.mockSetActive(ctx, id, active)
}

func (m *mockAccountRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return m.mockList(ctx, query)
}

type mockSessionRepo struct {
	repository.SessionRepository
	mockFindActiveByAccount func(ctx context.Context, accountID uint) (*models.Session, error)
	mockCreate              func(ctx context.Context, session *models.Session) error
	mockTouch               func(ctx context.Context, id uint, at time.Time) error
	mockDeactivateByAccount func(ctx context.Context, accountID uint) error
	mockListByAccount       func(ctx context.Context, accountID uint) ([]models.Session, error)
}

func (m *mockSessionRepo) FindActiveByAccount(ctx context.Context, accountID uint) (*models.Session, error) {
	return m.mockFindActiveByAccount(ctx, accountID)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	return m.mockCreate(ctx, session)
}

func (m *mockSessionRepo) Touch(ctx context.Context, id uint, at time.Time) error {
	if m.mockTouch != nil {
		return m.mockTouch(ctx, id, at)
	}
	return nil
}

func (m *mockSessionRepo) DeactivateByAccount(ctx context.Context, accountID uint) error {
	if m.mockDeactivateByAccount != nil {
		return m.mockDeactivateByAccount(ctx, accountID)
	}
	return nil
}

func (m *mockSessionRepo) ListByAccount(ctx context.Context, accountID uint) ([]models.Session, error) {
	return m.mockListByAccount(ctx, accountID)
}

type mockAuditRepo struct {
	repository.AuditLogRepository
	entries []*models.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
}

func activeAccount(t *testing.T, id uint, username, password string) *models.Account {
	t.Helper()
	hashed, err := HashPassword(password)
	assert.NoError(t, err)
	return &models.Account{
		ID:                id,
		Username:          username,
		EncryptedPassword: hashed,
		Active:            true,
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	account := activeAccount(t, 1, "mgarcia", "password123")
	account.Active = false

	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return account, nil
		},
	}
	service := NewAuthService(mockRepo, &mockSessionRepo{}, NewAuditService(&mockAuditRepo{}), testConfig())

	result, err := service.Login(context.Background(), "mgarcia", "password123", "", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	account := activeAccount(t, 1, "mgarcia", "password123")

	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return account, nil
		},
	}
	service := NewAuthService(mockRepo, &mockSessionRepo{}, NewAuditService(&mockAuditRepo{}), testConfig())

	result, err := service.Login(context.Background(), "mgarcia", "wrong", "", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAuthService(mockRepo, &mockSessionRepo{}, NewAuditService(&mockAuditRepo{}), testConfig())

	result, err := service.Login(context.Background(), "nobody", "password123", "", "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_MergesProfileFields(t *testing.T) {
	account := activeAccount(t, 42, "mgarcia", "password123")
	account.FirstName = "Maria"
	account.LastName = "Garcia"
	account.Profile = &models.Profile{
		AccountID:  42,
		EmployeeID: "20250042",
		Department: "Warehouse",
		Role:       &models.Role{Name: models.RoleWarehouse, DisplayName: "Warehouse"},
	}

	var createdSession *models.Session
	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return account, nil
		},
		mockFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return account, nil
		},
	}
	mockSessions := &mockSessionRepo{
		mockFindActiveByAccount: func(ctx context.Context, accountID uint) (*models.Session, error) {
			return nil, gorm.ErrRecordNotFound
		},
		mockCreate: func(ctx context.Context, session *models.Session) error {
			createdSession = session
			return nil
		},
	}
	audit := &mockAuditRepo{}
	service := NewAuthService(mockRepo, mockSessions, NewAuditService(audit), testConfig())

	result, err := service.Login(context.Background(), "mgarcia", "password123", "10.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, "20250042", *result.User.EmployeeID)
	assert.Equal(t, models.RoleWarehouse, *result.User.Role)
	assert.Equal(t, "Warehouse", *result.User.Department)
	assert.Equal(t, "Maria Garcia", result.User.FullName)

	assert.NotNil(t, createdSession)
	assert.Equal(t, "10.0.0.1", createdSession.IPAddress)
	assert.Equal(t, "test-agent", createdSession.UserAgent)

	// A login audit entry is written
	assert.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestAuthService_Login_NoProfileYieldsNulls(t *testing.T) {
	account := activeAccount(t, 5, "fresh", "password123")

	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return account, nil
		},
		mockFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return account, nil
		},
	}
	mockSessions := &mockSessionRepo{
		mockFindActiveByAccount: func(ctx context.Context, accountID uint) (*models.Session, error) {
			return nil, gorm.ErrRecordNotFound
		},
		mockCreate: func(ctx context.Context, session *models.Session) error {
			return nil
		},
	}
	service := NewAuthService(mockRepo, mockSessions, NewAuditService(&mockAuditRepo{}), testConfig())

	result, err := service.Login(context.Background(), "fresh", "password123", "", "")
	assert.NoError(t, err)
	assert.Nil(t, result.User.EmployeeID)
	assert.Nil(t, result.User.Role)
	assert.Nil(t, result.User.Department)
}

func TestAuthService_Login_ReusesActiveSession(t *testing.T) {
	account := activeAccount(t, 9, "mgarcia", "password123")

	existing := &models.Session{ID: 3, AccountID: 9, Token: "existing-token", Active: true}
	created := false
	mockRepo := &mockAccountRepo{
		mockFindByUsername: func(ctx context.Context, username string) (*models.Account, error) {
			return account, nil
		},
		mockFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return account, nil
		},
	}
	mockSessions := &mockSessionRepo{
		mockFindActiveByAccount: func(ctx context.Context, accountID uint) (*models.Session, error) {
			return existing, nil
		},
		mockCreate: func(ctx context.Context, session *models.Session) error {
			created = true
			return nil
		},
	}
	service := NewAuthService(mockRepo, mockSessions, NewAuditService(&mockAuditRepo{}), testConfig())

	result, err := service.Login(context.Background(), "mgarcia", "password123", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "existing-token", result.SessionToken)
	assert.False(t, created)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	calls := 0
	mockSessions := &mockSessionRepo{
		mockDeactivateByAccount: func(ctx context.Context, accountID uint) error {
			calls++
			return nil
		},
	}
	service := NewAuthService(&mockAccountRepo{}, mockSessions, NewAuditService(&mockAuditRepo{}), testConfig())

	// Logging out twice is not an error even with no active session
	service.Logout(context.Background(), 1, "", "")
	service.Logout(context.Background(), 1, "", "")
	assert.Equal(t, 2, calls)
}

func TestAuthService_Sessions_FlagsStale(t *testing.T) {
	now := time.Now()
	mockSessions := &mockSessionRepo{
		mockListByAccount: func(ctx context.Context, accountID uint) ([]models.Session, error) {
			return []models.Session{
				{ID: 1, AccountID: accountID, Active: true, LastSeenAt: now},
				{ID: 2, AccountID: accountID, Active: true, LastSeenAt: now.AddDate(0, 0, -45)},
			}, nil
		},
	}
	cfg := testConfig()
	cfg.SessionMaxIdleDays = 30
	service := NewAuthService(&mockAccountRepo{}, mockSessions, NewAuditService(&mockAuditRepo{}), cfg)

	sessions, err := service.Sessions(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.False(t, sessions[0].Stale)
	assert.True(t, sessions[1].Stale)
}

func TestAuthService_ResetPassword_Empty(t *testing.T) {
	service := NewAuthService(&mockAccountRepo{}, &mockSessionRepo{}, NewAuditService(&mockAuditRepo{}), testConfig())

	err := service.ResetPassword(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestAuthService_ResetPassword_Rehashes(t *testing.T) {
	account := activeAccount(t, 1, "mgarcia", "old-password")
	oldHash := account.EncryptedPassword

	var saved *models.Account
	mockRepo := &mockAccountRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Account, error) {
			return account, nil
		},
		mockUpdate: func(ctx context.Context, a *models.Account) error {
			saved = a
			return nil
		},
	}
	service := NewAuthService(mockRepo, &mockSessionRepo{}, NewAuditService(&mockAuditRepo{}), testConfig())

	err := service.ResetPassword(context.Background(), 1, "new-password")
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.NotEqual(t, oldHash, saved.EncryptedPassword)
	assert.True(t, VerifyPassword("new-password", saved.EncryptedPassword))
}
