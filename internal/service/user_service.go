package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/repository"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

const temporaryPasswordLength = 8

// UserService manages staff accounts for administrators.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	tx          repository.Transactor
	bcryptCost  int
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Transactor     repository.Transactor
	BcryptCost     int
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		tx:          deps.Transactor,
		bcryptCost:  deps.BcryptCost,
	}
}

// CreateUserInput describes a new account. Nil fields take their defaults.
type CreateUserInput struct {
	Username           string
	Password           *string
	Role               *domain.Role
	DepartmentID       *int64
	Active             *bool
	MustChangePassword *bool
}

// CreatedUser carries the new account and, when one was generated, its
// temporary password.
type CreatedUser struct {
	User              *domain.User
	TemporaryPassword *string
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound.WithDetails(map[string]any{"user_id": id})
	}
	return user, err
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// CreateUser adds an account. Without a password an 8 character temporary
// one is generated and returned once.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*CreatedUser, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username is required", map[string]any{"field": "username"})
	}

	role := domain.RoleViewer
	if input.Role != nil {
		role = domain.Role(strings.ToUpper(string(*input.Role)))
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	var temporary *string
	password := ""
	if input.Password != nil && *input.Password != "" {
		password = *input.Password
	} else {
		generated, err := auth.GenerateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return nil, err
		}
		password = generated
		temporary = &generated
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		DepartmentID:       input.DepartmentID,
		Active:             boolOr(input.Active, true),
		MustChangePassword: boolOr(input.MustChangePassword, true),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return domain.ErrUsernameTaken.WithDetails(map[string]any{"username": username})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if user.DepartmentID != nil {
			dept, err := s.departments.GetByID(ctx, *user.DepartmentID)
			if errors.Is(err, pgx.ErrNoRows) {
				return refNotFound("department", domain.RefByID(*user.DepartmentID))
			}
			if err != nil {
				return err
			}
			user.DepartmentName = &dept.Name
		}
		if err := s.users.Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return domain.ErrUsernameTaken.WithDetails(map[string]any{"username": username})
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreatedUser{User: user, TemporaryPassword: temporary}, nil
}

// ResetPassword replaces the password with a random one and forces a change
// at next login.
func (s *UserService) ResetPassword(ctx context.Context, userID int64) (string, error) {
	password, err := auth.GenerateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound.WithDetails(map[string]any{"user_id": userID})
		}
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.MustChangePassword = true
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return "", err
	}
	return password, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
