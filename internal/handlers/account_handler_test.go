package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/internal/services"
)

type stubAccountRepo struct {
	repository.AccountRepository
	stubFindByIDWithProfile func(ctx context.Context, id uint) (*models.Account, error)
	stubCreate              func(ctx context.Context, account *models.Account) error
	stubUpdate              func(ctx context.Context, account *models.Account) error
	stubSetActive           func(ctx context.Context, id uint, active bool) error
	stubList                func(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error)
}

func (s *stubAccountRepo) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.stubFindByIDWithProfile(ctx, id)
}

func (s *stubAccountRepo) FindByIDWithProfile(ctx context.Context, id uint) (*models.Account, error) {
	return s.stubFindByIDWithProfile(ctx, id)
}

func (s *stubAccountRepo) Create(ctx context.Context, account *models.Account) error {
	return s.stubCreate(ctx, account)
}

func (s *stubAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if s.stubUpdate != nil {
		return s.stubUpdate(ctx, account)
	}
	return nil
}

func (s *stubAccountRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return s.stubSetActive(ctx, id, active)
}

func (s *stubAccountRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return s.stubList(ctx, query)
}

type stubProfileRepo struct {
	repository.ProfileRepository
	actorRole  string
	stubCreate func(ctx context.Context, profile *models.Profile) error
}

const testActorID uint = 100

func (s *stubProfileRepo) FindByAccountID(ctx context.Context, accountID uint) (*models.Profile, error) {
	if accountID == testActorID && s.actorRole != "" {
		return &models.Profile{AccountID: testActorID, Role: &models.Role{Name: s.actorRole}}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if s.stubCreate != nil {
		return s.stubCreate(ctx, profile)
	}
	return nil
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	return nil
}

func (s *stubProfileRepo) SetActive(ctx context.Context, accountID uint, active bool) error {
	return nil
}

type stubRoleRepo struct {
	repository.RoleRepository
}

func (s *stubRoleRepo) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	return &models.Role{ID: id, Name: models.RoleSales}, nil
}

type stubAuditRepo struct {
	repository.AuditLogRepository
}

func (s *stubAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return nil
}

type stubTxManager struct{}

func (s *stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func newTestAccountHandler(accountRepo repository.AccountRepository, actorRole string, profileCreate func(ctx context.Context, profile *models.Profile) error) *AccountHandler {
	profileRepo := &stubProfileRepo{actorRole: actorRole, stubCreate: profileCreate}
	profileSvc := services.NewProfileService(profileRepo, &stubRoleRepo{})
	auditSvc := services.NewAuditService(&stubAuditRepo{})
	accountSvc := services.NewAccountService(accountRepo, profileSvc, auditSvc, &stubTxManager{})
	return NewAccountHandler(accountSvc, nil, nil)
}

// testContext builds a Gin test context carrying an authenticated actor
func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("accountID", testActorID)
	return c, w
}

func TestAccountHandler_Index(t *testing.T) {
	accounts := []models.Account{
		{ID: 1, Username: "admin", Active: true},
		{ID: 2, Username: "mgarcia", Active: true, Profile: &models.Profile{
			EmployeeID: "20250002",
			Role:       &models.Role{Name: models.RoleSales, DisplayName: "Sales"},
		}},
	}
	repo := &stubAccountRepo{
		stubList: func(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
			assert.Equal(t, 1, query.Page)
			assert.Equal(t, "garcia", query.Search)
			return accounts, 2, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	c, w := testContext(t, "GET", "/users?search_term=garcia", nil)
	handler.Index(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users      []models.AccountResponse `json:"users"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	// Profileless account reports explicit nulls, the other merges its role
	assert.Nil(t, resp.Users[0].EmployeeID)
	assert.Equal(t, models.RoleSales, *resp.Users[1].Role)
}

func TestAccountHandler_Index_ClampsPagination(t *testing.T) {
	repo := &stubAccountRepo{
		stubList: func(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
			assert.Equal(t, 1, query.Page)
			assert.Equal(t, 20, query.PerPage)
			return nil, 0, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	// Zero and negative values fall back to the defaults instead of
	// poisoning the total_pages arithmetic
	c, w := testContext(t, "GET", "/users?per_page=0&page=-3", nil)
	assert.NotPanics(t, func() { handler.Index(c) })
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pagination struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.PerPage)
}

func TestAccountHandler_Show_NotFound(t *testing.T) {
	repo := &stubAccountRepo{
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	c, w := testContext(t, "GET", "/users/404", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "404"}}
	handler.Show(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_Create_NestedPayload(t *testing.T) {
	var created *models.Account
	repo := &stubAccountRepo{
		stubCreate: func(ctx context.Context, account *models.Account) error {
			account.ID = 7
			created = account
			return nil
		},
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return created, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	body := []byte(`{"user": {"username": "jlopez", "password": "password123", "email": "jlopez@example.com"}}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, created)
	assert.Equal(t, "jlopez", created.Username)
	assert.Equal(t, "jlopez@example.com", created.Email)
}

func TestAccountHandler_Create_FlatPayload(t *testing.T) {
	var created *models.Account
	repo := &stubAccountRepo{
		stubCreate: func(ctx context.Context, account *models.Account) error {
			account.ID = 8
			created = account
			return nil
		},
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return created, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	body := []byte(`{"username": "jlopez", "password": "password123"}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "jlopez", created.Username)
}

func TestAccountHandler_Create_DuplicateEmployeeID(t *testing.T) {
	repo := &stubAccountRepo{
		stubCreate: func(ctx context.Context, account *models.Account) error {
			account.ID = 9
			return nil
		},
	}
	profileCreate := func(ctx context.Context, profile *models.Profile) error {
		return repository.ErrDuplicateEmployeeID
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, profileCreate)

	body := []byte(`{"username": "jlopez", "password": "password123"}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "employee id")
}

func TestAccountHandler_Create_MissingUsername(t *testing.T) {
	handler := newTestAccountHandler(&stubAccountRepo{}, models.RoleAdmin, nil)

	body := []byte(`{"password": "password123"}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_Create_ShortPasswordRejected(t *testing.T) {
	handler := newTestAccountHandler(&stubAccountRepo{}, models.RoleAdmin, nil)

	body := []byte(`{"user": {"username": "jlopez", "password": "123"}}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestAccountHandler_ResetPassword_ShortPasswordRejected(t *testing.T) {
	handler := newTestAccountHandler(&stubAccountRepo{}, models.RoleAdmin, nil)

	c, w := testContext(t, "PUT", "/users/5/reset_password", []byte(`{"password": "123"}`))
	c.Params = gin.Params{{Key: "user_id", Value: "5"}}
	handler.ResetPassword(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestAccountHandler_Create_NonAdminForbidden(t *testing.T) {
	handler := newTestAccountHandler(&stubAccountRepo{}, models.RoleWarehouse, nil)

	body := []byte(`{"username": "jlopez", "password": "password123"}`)
	c, w := testContext(t, "POST", "/users", body)
	handler.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccountHandler_Delete_Deactivates(t *testing.T) {
	var setActive *bool
	repo := &stubAccountRepo{
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return &models.Account{ID: id, Username: "jlopez", Active: true}, nil
		},
		stubSetActive: func(ctx context.Context, id uint, active bool) error {
			setActive = &active
			return nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	c, w := testContext(t, "DELETE", "/users/5", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "5"}}
	handler.Delete(c)

	// Delete never removes the row, it flips the active flag
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, setActive)
	assert.False(t, *setActive)
	assert.Contains(t, w.Body.String(), "deactivated")
}

func TestAccountHandler_ResetPassword_MissingPassword(t *testing.T) {
	repo := &stubAccountRepo{
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return &models.Account{ID: id, Username: "jlopez"}, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	c, w := testContext(t, "PUT", "/users/5/reset_password", []byte(`{}`))
	c.Params = gin.Params{{Key: "user_id", Value: "5"}}
	handler.ResetPassword(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAccountHandler_Update_EmployeeIDChangeRejected(t *testing.T) {
	repo := &stubAccountRepo{
		stubFindByIDWithProfile: func(ctx context.Context, id uint) (*models.Account, error) {
			return &models.Account{
				ID:       id,
				Username: "jlopez",
				Profile:  &models.Profile{AccountID: id, EmployeeID: "20250005", HireDate: ptrTime(time.Now())},
			}, nil
		},
	}
	handler := newTestAccountHandler(repo, models.RoleAdmin, nil)

	body := []byte(`{"user": {"profile": {"employee_id": "20250099"}}}`)
	c, w := testContext(t, "PUT", "/users/5", body)
	c.Params = gin.Params{{Key: "user_id", Value: "5"}}
	handler.Update(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func ptrTime(t time.Time) *time.Time { return &t }
