package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/config"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/events"
	"github.com/teleposta/ict-helpdesk/internal/repository/repotest"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store     *repotest.Store
	clock     *clock
	events    *recorder
	directory *DirectoryService
	tickets   *TicketService
	auth      *AuthService
	users     *UserService

	tower, annex    domain.Building
	floor15, ground domain.Floor
	annexFloor      domain.Floor
	ict, finance    domain.Department
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repotest.NewStore()
	clk := &clock{now: time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)}
	rec := &recorder{}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := NewNotificationService(dispatcher, rec, nil)
	notifications.RegisterHandlers()

	f := &fixture{store: store, clock: clk, events: rec}
	f.tower = store.AddBuilding(domain.Building{Name: "Teleposta Tower", Floors: 20})
	f.annex = store.AddBuilding(domain.Building{Name: "Annex"})
	f.floor15 = store.AddFloor(f.tower.ID, "15")
	f.ground = store.AddFloor(f.tower.ID, "Ground Floor")
	f.annexFloor = store.AddFloor(f.annex.ID, "1")
	f.ict = store.AddDepartment(domain.Department{Name: "ICT Department"})
	f.finance = store.AddDepartment(domain.Department{Name: "Finance"})

	f.directory = NewDirectoryService(DirectoryDependencies{
		BuildingRepo:   store.Buildings(),
		FloorRepo:      store.Floors(),
		DepartmentRepo: store.Departments(),
		Transactor:     store.Transactor(),
	})
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		UserRepo:   store.Users(),
		Directory:  f.directory,
		Transactor: store.Transactor(),
		Dispatcher: dispatcher,
	})
	f.tickets.now = clk.Now

	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 24 * 60,
		BcryptCost:            bcrypt.MinCost,
		MaxFailedLogins:       5,
		LockoutMinutes:        5,
	}
	tokens := auth.NewTokenManager(authCfg.JWTSecret, authCfg.AccessTokenTTL())
	f.auth = NewAuthService(authCfg, AuthDependencies{
		UserRepo:     store.Users(),
		Transactor:   store.Transactor(),
		TokenManager: tokens,
	})
	f.auth.now = clk.Now
	f.users = NewUserService(UserDependencies{
		UserRepo:       store.Users(),
		DepartmentRepo: store.Departments(),
		Transactor:     store.Transactor(),
		BcryptCost:     bcrypt.MinCost,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, username, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return f.store.AddUser(domain.User{Username: username, PasswordHash: hash, Role: role, Active: true})
}

func (f *fixture) createTicket(t *testing.T, input TicketCreateInput) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), input)
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func towerTicket(issue, description, contact string) TicketCreateInput {
	return TicketCreateInput{
		Building:      domain.RefByName("Teleposta Tower"),
		Floor:         domain.RefByName("15"),
		Department:    domain.RefByName("ICT Department"),
		IssueType:     issue,
		Description:   description,
		ContactPerson: contact,
	}
}
