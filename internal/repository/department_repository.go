package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

const departmentColumns = `id, name, description, contact_person, phone_number`

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, description, contact_person, phone_number)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		dept.Name,
		dept.Description,
		dept.ContactPerson,
		dept.PhoneNumber,
	).Scan(&dept.ID)
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	return scanDepartment(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id=$1`, id))
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	return scanDepartment(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE LOWER(name)=LOWER($1)`, name))
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *dept)
	}
	return result, rows.Err()
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var dept domain.Department
	if err := row.Scan(
		&dept.ID,
		&dept.Name,
		&dept.Description,
		&dept.ContactPerson,
		&dept.PhoneNumber,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}
