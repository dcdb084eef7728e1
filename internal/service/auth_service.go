package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/config"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/repository"
)

// AuthService coordinates login and password flows.
type AuthService struct {
	users       repository.UserRepository
	tx          repository.Transactor
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	maxFailures int
	lockout     time.Duration
	now         func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	Transactor   repository.Transactor
	TokenManager *auth.TokenManager
}

// LoginResult is a successful authentication.
type LoginResult struct {
	Token domain.Token
	User  *domain.User
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	}
	maxFailures := cfg.MaxFailedLogins
	if maxFailures <= 0 {
		maxFailures = 5
	}
	lockout := cfg.Lockout()
	if lockout <= 0 {
		lockout = 5 * time.Minute
	}
	return &AuthService{
		users:       deps.UserRepo,
		tx:          deps.Transactor,
		tokenMgr:    tokens,
		bcryptCost:  cfg.BcryptCost,
		maxFailures: maxFailures,
		lockout:     lockout,
		now:         time.Now,
	}
}

// Login authenticates a user. Failed attempts are persisted even though an
// error is returned, and the account locks after too many consecutive failures.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var (
		result  *LoginResult
		authErr error
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByUsername(ctx, username)
		if errors.Is(err, pgx.ErrNoRows) {
			authErr = domain.ErrInvalidCredentials
			return nil
		}
		if err != nil {
			return err
		}

		now := s.now()
		if !user.Active {
			authErr = domain.ErrAccountDisabled
			return nil
		}
		if user.IsLocked(now) {
			authErr = domain.ErrAccountLocked.WithDetails(map[string]any{"locked_until": user.LockedUntil.UTC()})
			return nil
		}
		if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
			user.RecordFailedLogin(now, s.maxFailures, s.lockout)
			if err := s.users.Update(ctx, user); err != nil {
				return err
			}
			authErr = domain.ErrInvalidCredentials
			return nil
		}

		user.RecordSuccessfulLogin(now)
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		token, err := s.tokenMgr.GenerateToken(user)
		if err != nil {
			return err
		}
		result = &LoginResult{Token: token, User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if authErr != nil {
		return nil, authErr
	}
	return result, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ *domain.User) error {
	return nil
}

// ChangePassword verifies the current password before storing the new one
// and clears the forced-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
			return domain.ErrIncorrectCurrentPassword
		}
		if len(newPassword) < auth.MinPasswordLength {
			return domain.ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.MustChangePassword = false
		return s.users.Update(ctx, user)
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
