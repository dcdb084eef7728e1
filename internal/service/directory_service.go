package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/teleposta/ict-helpdesk/internal/cache"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/repository"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

const (
	cacheKeyBuildings   = "directory:buildings"
	cacheKeyDepartments = "directory:departments"
)

// DirectoryService serves buildings, floors and departments and resolves
// name-or-id references to them.
type DirectoryService struct {
	buildings   repository.BuildingRepository
	floors      repository.FloorRepository
	departments repository.DepartmentRepository
	tx          repository.Transactor
	cache       *cache.Cache
}

// DirectoryDependencies bundles repositories for the directory service.
type DirectoryDependencies struct {
	BuildingRepo   repository.BuildingRepository
	FloorRepo      repository.FloorRepository
	DepartmentRepo repository.DepartmentRepository
	Transactor     repository.Transactor
	Cache          *cache.Cache
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		buildings:   deps.BuildingRepo,
		floors:      deps.FloorRepo,
		departments: deps.DepartmentRepo,
		tx:          deps.Transactor,
		cache:       deps.Cache,
	}
}

// BuildingDirectory is the building view returned by DepartmentsForBuilding.
type BuildingDirectory struct {
	Building    *domain.Building
	Floors      []domain.Floor
	Departments []domain.Department
}

// DepartmentInput describes a new department.
type DepartmentInput struct {
	Name          string
	Description   string
	ContactPerson string
	PhoneNumber   string
}

// ListBuildings returns all buildings.
func (s *DirectoryService) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	return cache.Remember(ctx, s.cache, cacheKeyBuildings, s.buildings.List)
}

// ListDepartments returns all departments.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return cache.Remember(ctx, s.cache, cacheKeyDepartments, s.departments.List)
}

// ListFloors returns the floors of one building, or every floor when buildingID is nil.
func (s *DirectoryService) ListFloors(ctx context.Context, buildingID *int64) ([]domain.Floor, error) {
	if buildingID == nil {
		return s.floors.List(ctx)
	}
	return s.floors.ListByBuilding(ctx, *buildingID)
}

// DepartmentsForBuilding resolves the building and returns it with its floors
// and the department list.
func (s *DirectoryService) DepartmentsForBuilding(ctx context.Context, ref domain.Ref) (*BuildingDirectory, error) {
	building, err := s.ResolveBuilding(ctx, ref)
	if err != nil {
		return nil, err
	}
	floors, err := s.floors.ListByBuilding(ctx, building.ID)
	if err != nil {
		return nil, err
	}
	departments, err := s.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	return &BuildingDirectory{Building: building, Floors: floors, Departments: departments}, nil
}

// CreateDepartment adds a department with a unique name.
func (s *DirectoryService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name is required", map[string]any{"field": "name"})
	}

	dept := &domain.Department{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		PhoneNumber:   strings.TrimSpace(input.PhoneNumber),
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.departments.GetByName(ctx, name); err == nil {
			return domain.ErrDepartmentExists.WithDetails(map[string]any{"name": name})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err := s.departments.Create(ctx, dept); err != nil {
			if repository.IsUniqueViolation(err) {
				return domain.ErrDepartmentExists.WithDetails(map[string]any{"name": name})
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheKeyDepartments)
	return dept, nil
}

// ResolveBuilding looks a building up by id or by name.
func (s *DirectoryService) ResolveBuilding(ctx context.Context, ref domain.Ref) (*domain.Building, error) {
	if ref.IsZero() {
		return nil, refNotFound("building", ref)
	}
	var (
		b   *domain.Building
		err error
	)
	if ref.ByID() {
		b, err = s.buildings.GetByID(ctx, ref.ID)
	} else {
		b, err = s.buildings.GetByName(ctx, ref.Name)
	}
	return lookupResult(b, err, "building", ref)
}

// ResolveFloor looks a floor up within building. A floor id belonging to
// another building does not resolve.
func (s *DirectoryService) ResolveFloor(ctx context.Context, building *domain.Building, ref domain.Ref) (*domain.Floor, error) {
	if ref.IsZero() {
		return nil, refNotFound("floor", ref)
	}
	var (
		f   *domain.Floor
		err error
	)
	if ref.ByID() {
		f, err = s.floors.GetByID(ctx, ref.ID)
		if err == nil && f.BuildingID != building.ID {
			return nil, refNotFound("floor", ref)
		}
	} else {
		f, err = s.floors.GetByLabel(ctx, building.ID, ref.Name)
	}
	return lookupResult(f, err, "floor", ref)
}

// ResolveDepartment looks a department up by id or by name.
func (s *DirectoryService) ResolveDepartment(ctx context.Context, ref domain.Ref) (*domain.Department, error) {
	if ref.IsZero() {
		return nil, refNotFound("department", ref)
	}
	var (
		d   *domain.Department
		err error
	)
	if ref.ByID() {
		d, err = s.departments.GetByID(ctx, ref.ID)
	} else {
		d, err = s.departments.GetByName(ctx, ref.Name)
	}
	return lookupResult(d, err, "department", ref)
}

func lookupResult[T any](v *T, err error, kind string, ref domain.Ref) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, refNotFound(kind, ref)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func refNotFound(kind string, ref domain.Ref) error {
	return domain.ErrReferenceNotFound.
		WithMessage(kind + " not found").
		WithDetails(map[string]any{"kind": kind, "reference": ref.String()})
}
