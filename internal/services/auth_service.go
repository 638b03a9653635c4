package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rmedina/erp-admin-api/internal/config"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// AuthService handles authentication and session issuance
type AuthService struct {
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	auditSvc    *AuditService
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo repository.AccountRepository, sessionRepo repository.SessionRepository, auditSvc *AuditService, cfg *config.Config) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		auditSvc:    auditSvc,
		cfg:         cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string                 `json:"token"`
	SessionToken string                 `json:"session_token"`
	User         models.AccountResponse `json:"user"`
}

// Authenticate verifies credentials and returns the matching account.
// Unknown username and password mismatch are indistinguishable to the
// caller; a matched but disabled account reports ErrAccountDisabled.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.EncryptedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive() {
		return nil, ErrAccountDisabled
	}
	return account, nil
}

// Login authenticates and issues tokens. The JWT carries identity and
// role claims; the opaque session token tracks the login instance. An
// account's existing active session is reused rather than duplicated.
func (s *AuthService) Login(ctx context.Context, username, password, ip, userAgent string) (*LoginResult, error) {
	account, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	// Reload with profile and role for the merged response and JWT role claim
	account, err = s.accountRepo.FindByIDWithProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.generateJWT(account)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	sessionToken, err := s.issueSessionToken(ctx, account.ID, ip, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		logger.Warn("Failed to record last login", "account_id", account.ID, "error", err)
	}

	if err := s.auditSvc.Log(ctx, &account.ID, models.AuditActionLogin, "Account", account.ID, account.Username, nil, ip, userAgent); err != nil {
		logger.Warn("Failed to write login audit entry", "account_id", account.ID, "error", err)
	}

	return &LoginResult{
		Token:        token,
		SessionToken: sessionToken,
		User:         account.ToResponse(),
	}, nil
}

// Logout ends the account's active sessions. Idempotent: an account
// with no active session is not an error, and cleanup failures are
// swallowed as best-effort.
func (s *AuthService) Logout(ctx context.Context, accountID uint, ip, userAgent string) {
	if err := s.sessionRepo.DeactivateByAccount(ctx, accountID); err != nil {
		logger.Warn("Failed to end sessions on logout", "account_id", accountID, "error", err)
	}
	if err := s.auditSvc.Log(ctx, &accountID, models.AuditActionLogout, "Account", accountID, "", nil, ip, userAgent); err != nil {
		logger.Warn("Failed to write logout audit entry", "account_id", accountID, "error", err)
	}
}

// ResetPassword re-hashes and persists a new password for the account
func (s *AuthService) ResetPassword(ctx context.Context, accountID uint, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.EncryptedPassword = hashed
	return s.accountRepo.Update(ctx, account)
}

// issueSessionToken reuses the account's active session token when one
// exists, otherwise creates a new session row with request metadata.
func (s *AuthService) issueSessionToken(ctx context.Context, accountID uint, ip, userAgent string) (string, error) {
	now := time.Now()

	existing, err := s.sessionRepo.FindActiveByAccount(ctx, accountID)
	if err == nil {
		if touchErr := s.sessionRepo.Touch(ctx, existing.ID, now); touchErr != nil {
			logger.Warn("Failed to touch session", "session_id", existing.ID, "error", touchErr)
		}
		return existing.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	session := &models.Session{
		AccountID:  accountID,
		Token:      uuid.NewString(),
		IPAddress:  ip,
		UserAgent:  userAgent,
		Active:     true,
		LastSeenAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}

// Sessions lists the account's login history, newest first, with each
// entry flagged stale against the configured idle cutoff
func (s *AuthService) Sessions(ctx context.Context, accountID uint) ([]models.SessionResponse, error) {
	sessions, err := s.sessionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	maxIdle := time.Duration(s.cfg.SessionMaxIdleDays) * 24 * time.Hour
	responses := make([]models.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, sess.ToResponse(maxIdle))
	}
	return responses, nil
}

// SweepStaleSessions marks sessions idle for longer than maxIdle as
// inactive. Run periodically by the background worker.
func (s *AuthService) SweepStaleSessions(ctx context.Context, maxIdle time.Duration) error {
	n, err := s.sessionRepo.DeactivateStale(ctx, time.Now().Add(-maxIdle))
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("Deactivated stale sessions", "count", n)
	}
	return nil
}

// generateJWT creates a signed access token for an account
func (s *AuthService) generateJWT(account *models.Account) (string, error) {
	role := ""
	if account.Profile != nil && account.Profile.Role != nil {
		role = account.Profile.Role.Name
	}

	claims := jwt.MapClaims{
		"account_id": account.ID,
		"username":   account.Username,
		"role":       role,
		"exp":        time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
