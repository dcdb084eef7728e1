package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// BuildingRepository reads building directory data.
type BuildingRepository interface {
	List(ctx context.Context) ([]domain.Building, error)
	GetByID(ctx context.Context, id int64) (*domain.Building, error)
	GetByName(ctx context.Context, name string) (*domain.Building, error)
}

type buildingRepository struct {
	pool *pgxpool.Pool
}

// NewBuildingRepository builds the repository.
func NewBuildingRepository(pool *pgxpool.Pool) BuildingRepository {
	return &buildingRepository{pool: pool}
}

const buildingColumns = `id, name, address, floors, description, contact_person, phone_number`

func (r *buildingRepository) List(ctx context.Context) ([]domain.Building, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+buildingColumns+` FROM buildings ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *buildingRepository) GetByID(ctx context.Context, id int64) (*domain.Building, error) {
	return scanBuilding(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE id=$1`, id))
}

func (r *buildingRepository) GetByName(ctx context.Context, name string) (*domain.Building, error) {
	return scanBuilding(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+buildingColumns+` FROM buildings WHERE LOWER(name)=LOWER($1)`, name))
}

func scanBuilding(row pgx.Row) (*domain.Building, error) {
	var b domain.Building
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Address,
		&b.Floors,
		&b.Description,
		&b.ContactPerson,
		&b.PhoneNumber,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
