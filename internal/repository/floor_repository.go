package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// FloorRepository reads floors. Label lookups are always scoped to a building.
type FloorRepository interface {
	List(ctx context.Context) ([]domain.Floor, error)
	ListByBuilding(ctx context.Context, buildingID int64) ([]domain.Floor, error)
	GetByID(ctx context.Context, id int64) (*domain.Floor, error)
	GetByLabel(ctx context.Context, buildingID int64, label string) (*domain.Floor, error)
}

type floorRepository struct {
	pool *pgxpool.Pool
}

// NewFloorRepository builds the repository.
func NewFloorRepository(pool *pgxpool.Pool) FloorRepository {
	return &floorRepository{pool: pool}
}

const floorSelect = `
        SELECT f.id, f.building_id, b.name, f.label, f.description
        FROM floors f JOIN buildings b ON b.id = f.building_id`

func (r *floorRepository) List(ctx context.Context) ([]domain.Floor, error) {
	return r.query(ctx, floorSelect+` ORDER BY b.name, f.id`)
}

func (r *floorRepository) ListByBuilding(ctx context.Context, buildingID int64) ([]domain.Floor, error) {
	return r.query(ctx, floorSelect+` WHERE f.building_id=$1 ORDER BY f.id`, buildingID)
}

func (r *floorRepository) GetByID(ctx context.Context, id int64) (*domain.Floor, error) {
	return scanFloor(conn(ctx, r.pool).QueryRow(ctx, floorSelect+` WHERE f.id=$1`, id))
}

func (r *floorRepository) GetByLabel(ctx context.Context, buildingID int64, label string) (*domain.Floor, error) {
	return scanFloor(conn(ctx, r.pool).QueryRow(ctx,
		floorSelect+` WHERE f.building_id=$1 AND LOWER(f.label)=LOWER($2)`, buildingID, label))
}

func (r *floorRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Floor, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Floor
	for rows.Next() {
		f, err := scanFloor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	return result, rows.Err()
}

func scanFloor(row pgx.Row) (*domain.Floor, error) {
	var f domain.Floor
	if err := row.Scan(&f.ID, &f.BuildingID, &f.BuildingName, &f.Label, &f.Description); err != nil {
		return nil, err
	}
	return &f, nil
}
