package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmedina/erp-admin-api/internal/middleware"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
	authService    *services.AuthService
	exportService  *services.ExportService
}

func NewAccountHandler(accountService *services.AccountService, authService *services.AuthService, exportService *services.ExportService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		authService:    authService,
		exportService:  exportService,
	}
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrEmployeeIDImmutable),
		errors.Is(err, repository.ErrDuplicateUsername),
		errors.Is(err, repository.ErrDuplicateEmployeeID):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

// @Summary List Accounts
// @Description Get a paginated list of accounts ordered by username
// @Tags Accounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Substring filter over username, name and email"
// @Param active query string false "Filter by active flag (true/false)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /users [get]
func (h *AccountHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && perPage > 0 {
		query.PerPage = perPage
	}
	query.Search = c.Query("search_term")
	query.Filters["active"] = c.Query("active")

	accounts, total, err := h.accountService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Account
// @Description Get an account by ID with merged profile fields
// @Tags Accounts
// @Produce json
// @Param user_id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [get]
func (h *AccountHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	account, err := h.accountService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account.ToResponse()})
}

// minPasswordLength applies to new and reset passwords
const minPasswordLength = 6

type CreateAccountPayload struct {
	Username  string                  `json:"username"`
	Password  string                  `json:"password"`
	Email     string                  `json:"email"`
	FirstName string                  `json:"first_name"`
	LastName  string                  `json:"last_name"`
	Staff     bool                    `json:"staff"`
	Profile   *services.ProfileUpdate `json:"profile"`
}

// @Summary Create Account
// @Description Create a new account with its profile. Admin role required.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountPayload true "Account Data"
// @Success 201 {object} models.AccountResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /users [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountPayload
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
		return
	}

	actorID := middleware.GetAccountID(c)
	account, err := h.accountService.Create(c.Request.Context(), &services.CreateAccountRequest{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Staff:     req.Staff,
		Profile:   req.Profile,
	}, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": account.ToResponse(), "message": "account created"})
}

// @Summary Update Account
// @Description Partially update an account and its profile. Admin role required.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param user_id path int true "Account ID"
// @Param request body services.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} models.AccountResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)

	var req services.UpdateAccountRequest
	if err := BindNestedOrFlat(c, "user", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetAccountID(c)
	account, err := h.accountService.Update(c.Request.Context(), uint(id), &req, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account.ToResponse(), "message": "account updated"})
}

// @Summary Delete Account
// @Description Accounts are never hard-deleted; this deactivates the account and its profile.
// @Tags Accounts
// @Produce json
// @Param user_id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	h.Deactivate(c)
}

// @Summary Activate Account
// @Description Re-enables an account and its profile together
// @Tags Accounts
// @Produce json
// @Param user_id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/activate [put]
func (h *AccountHandler) Activate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	actorID := middleware.GetAccountID(c)
	if err := h.accountService.Activate(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

// @Summary Deactivate Account
// @Description Disables an account and its profile together
// @Tags Accounts
// @Produce json
// @Param user_id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/deactivate [put]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)
	actorID := middleware.GetAccountID(c)
	if err := h.accountService.Deactivate(c.Request.Context(), uint(id), actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// @Summary Reset Password
// @Description Admin-triggered password reset for an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param user_id path int true "Account ID"
// @Param request body ResetPasswordRequest true "New Password"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /users/{user_id}/reset_password [put]
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("user_id"), 10, 32)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password != "" && len(req.Password) < minPasswordLength {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("password must be at least %d characters", minPasswordLength)})
		return
	}

	actorID := middleware.GetAccountID(c)
	if err := h.accountService.ResetPassword(c.Request.Context(), uint(id), req.Password, actorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// @Summary Export Accounts
// @Description Downloads the account roster as an XLSX workbook
// @Tags Accounts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /users/export [get]
func (h *AccountHandler) Export(c *gin.Context) {
	data, filename, err := h.exportService.AccountsXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
