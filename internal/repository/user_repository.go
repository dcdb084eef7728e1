package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// UserRepository defines persistence access for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userSelect = `
        SELECT u.id, u.username, u.password_hash, u.role, u.department_id, d.name,
               u.is_active, u.must_change_password, u.created_at, u.last_login,
               u.failed_login_attempts, u.locked_until
        FROM users u LEFT JOIN departments d ON d.id = u.department_id`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, role, department_id, is_active, must_change_password)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.DepartmentID,
		user.Active,
		user.MustChangePassword,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET password_hash=$1, role=$2, department_id=$3, is_active=$4,
            must_change_password=$5, last_login=$6, failed_login_attempts=$7, locked_until=$8
        WHERE id=$9`

	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		user.PasswordHash,
		user.Role,
		user.DepartmentID,
		user.Active,
		user.MustChangePassword,
		user.LastLogin,
		user.FailedLoginAttempts,
		user.LockedUntil,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, userSelect+` WHERE u.id=$1`, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, userSelect+` WHERE u.username=$1`, username))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, userSelect+` ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.DepartmentID,
		&user.DepartmentName,
		&user.Active,
		&user.MustChangePassword,
		&user.CreatedAt,
		&user.LastLogin,
		&user.FailedLoginAttempts,
		&user.LockedUntil,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
