// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/repository"
)

// Store holds every table in memory. WithinTx restores a snapshot when the
// unit of work fails, so rollback behavior can be asserted.
type Store struct {
	mu          sync.Mutex
	nextID      int64
	buildings   map[int64]domain.Building
	floors      map[int64]domain.Floor
	departments map[int64]domain.Department
	users       map[int64]domain.User
	tickets     map[int64]domain.Ticket

	// FailNext makes the next repository write return this error.
	FailNext error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		buildings:   map[int64]domain.Building{},
		floors:      map[int64]domain.Floor{},
		departments: map[int64]domain.Department{},
		users:       map[int64]domain.User{},
		tickets:     map[int64]domain.Ticket{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// AddBuilding seeds a building and returns it with its id.
func (s *Store) AddBuilding(b domain.Building) domain.Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.buildings[b.ID] = b
	return b
}

// AddFloor seeds a floor of an existing building.
func (s *Store) AddFloor(buildingID int64, label string) domain.Floor {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := domain.Floor{ID: s.id(), BuildingID: buildingID, Label: label}
	s.floors[f.ID] = f
	return s.floorView(f)
}

// AddDepartment seeds a department.
func (s *Store) AddDepartment(d domain.Department) domain.Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.departments[d.ID] = d
	return d
}

// AddUser seeds a user.
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	s.users[u.ID] = u
	return s.userView(u)
}

// User returns the stored state of a user.
func (s *Store) User(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return s.userView(u), ok
}

// Ticket returns the stored state of a ticket.
func (s *Store) Ticket(id int64) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	return s.ticketView(t), ok
}

func (s *Store) floorView(f domain.Floor) domain.Floor {
	f.BuildingName = s.buildings[f.BuildingID].Name
	return f
}

func (s *Store) userView(u domain.User) domain.User {
	if u.DepartmentID != nil {
		if d, ok := s.departments[*u.DepartmentID]; ok {
			name := d.Name
			u.DepartmentName = &name
		}
	}
	return u
}

func (s *Store) ticketView(t domain.Ticket) domain.Ticket {
	t.BuildingName = s.buildings[t.BuildingID].Name
	t.FloorLabel = s.floors[t.FloorID].Label
	t.DepartmentName = s.departments[t.DepartmentID].Name
	return t
}

// Buildings returns the building repository view.
func (s *Store) Buildings() repository.BuildingRepository { return buildingRepo{s} }

// Floors returns the floor repository view.
func (s *Store) Floors() repository.FloorRepository { return floorRepo{s} }

// Departments returns the department repository view.
func (s *Store) Departments() repository.DepartmentRepository { return departmentRepo{s} }

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Tickets returns the ticket repository view.
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }

// Transactor returns a Transactor that rolls the store back when fn fails.
func (s *Store) Transactor() repository.Transactor { return txRunner{s} }

type txRunner struct{ s *Store }

func (r txRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.s.mu.Lock()
	snap := r.s.snapshot()
	r.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.s.mu.Lock()
		r.s.restore(snap)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	nextID      int64
	buildings   map[int64]domain.Building
	floors      map[int64]domain.Floor
	departments map[int64]domain.Department
	users       map[int64]domain.User
	tickets     map[int64]domain.Ticket
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		nextID:      s.nextID,
		buildings:   cloneMap(s.buildings),
		floors:      cloneMap(s.floors),
		departments: cloneMap(s.departments),
		users:       cloneMap(s.users),
		tickets:     cloneMap(s.tickets),
	}
}

func (s *Store) restore(snap snapshot) {
	s.nextID = snap.nextID
	s.buildings = snap.buildings
	s.floors = snap.floors
	s.departments = snap.departments
	s.users = snap.users
	s.tickets = snap.tickets
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type buildingRepo struct{ s *Store }

func (r buildingRepo) List(context.Context) ([]domain.Building, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Building, 0, len(r.s.buildings))
	for _, b := range r.s.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r buildingRepo) GetByID(_ context.Context, id int64) (*domain.Building, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.buildings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &b, nil
}

func (r buildingRepo) GetByName(_ context.Context, name string) (*domain.Building, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.buildings {
		if strings.EqualFold(b.Name, name) {
			return &b, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type floorRepo struct{ s *Store }

func (r floorRepo) List(context.Context) ([]domain.Floor, error) {
	return r.collect(func(domain.Floor) bool { return true }), nil
}

func (r floorRepo) ListByBuilding(_ context.Context, buildingID int64) ([]domain.Floor, error) {
	return r.collect(func(f domain.Floor) bool { return f.BuildingID == buildingID }), nil
}

func (r floorRepo) GetByID(_ context.Context, id int64) (*domain.Floor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.floors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	f = r.s.floorView(f)
	return &f, nil
}

func (r floorRepo) GetByLabel(_ context.Context, buildingID int64, label string) (*domain.Floor, error) {
	matches := r.collect(func(f domain.Floor) bool {
		return f.BuildingID == buildingID && strings.EqualFold(f.Label, label)
	})
	if len(matches) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &matches[0], nil
}

func (r floorRepo) collect(keep func(domain.Floor) bool) []domain.Floor {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Floor
	for _, f := range r.s.floors {
		if keep(f) {
			out = append(out, r.s.floorView(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(_ context.Context, d *domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range r.s.departments {
		if strings.EqualFold(existing.Name, d.Name) {
			return uniqueViolation()
		}
	}
	d.ID = r.s.id()
	r.s.departments[d.ID] = *d
	return nil
}

func (r departmentRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (r departmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.departments {
		if strings.EqualFold(d.Name, name) {
			return &d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r departmentRepo) List(context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return uniqueViolation()
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	*u = r.s.userView(*u)
	return nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u = r.s.userView(u)
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u = r.s.userView(u)
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) List(context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, r.s.userView(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	t.ID = r.s.id()
	t.UpdatedAt = t.CreatedAt
	r.s.tickets[t.ID] = *t
	return nil
}

func (r ticketRepo) Update(_ context.Context, t *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.s.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.tickets[t.ID] = *t
	return nil
}

func (r ticketRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t = r.s.ticketView(t)
	return &t, nil
}

func (r ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	out := r.filtered(filter)
	if filter.Limit > 0 {
		start := filter.Offset
		if start < 0 {
			start = 0
		}
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r ticketRepo) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	return len(r.filtered(filter)), nil
}

func (r ticketRepo) CountByStatus(context.Context) (map[domain.TicketStatus]int, error) {
	counts := map[domain.TicketStatus]int{}
	for _, t := range r.filtered(repository.TicketFilter{}) {
		counts[t.Status]++
	}
	return counts, nil
}

func (r ticketRepo) CountByPriority(context.Context) (map[domain.TicketPriority]int, error) {
	counts := map[domain.TicketPriority]int{}
	for _, t := range r.filtered(repository.TicketFilter{}) {
		counts[t.Priority]++
	}
	return counts, nil
}

func (r ticketRepo) CountByBuilding(context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, t := range r.filtered(repository.TicketFilter{}) {
		counts[t.BuildingName]++
	}
	return counts, nil
}

func (r ticketRepo) filtered(f repository.TicketFilter) []domain.Ticket {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(f.Search))
	var out []domain.Ticket
	for _, raw := range r.s.tickets {
		t := r.s.ticketView(raw)
		switch {
		case f.Status != nil && t.Status != *f.Status,
			f.Priority != nil && t.Priority != *f.Priority,
			f.BuildingID != nil && t.BuildingID != *f.BuildingID,
			f.BuildingName != nil && !strings.EqualFold(t.BuildingName, *f.BuildingName),
			f.DepartmentID != nil && t.DepartmentID != *f.DepartmentID,
			f.DepartmentName != nil && !strings.EqualFold(t.DepartmentName, *f.DepartmentName),
			f.AssignedToID != nil && (t.AssignedToID == nil || *t.AssignedToID != *f.AssignedToID):
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.ContactPerson), term) &&
			!strings.Contains(strings.ToLower(t.IssueType), term) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
