package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/events"
	"github.com/teleposta/ict-helpdesk/internal/repository"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

const (
	recentTicketsLimit = 5
	defaultPerPage     = 20
	maxPerPage         = 100
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	directory  *DirectoryService
	tx         repository.Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Directory  *DirectoryService
	Transactor repository.Transactor
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		directory:  deps.Directory,
		tx:         deps.Transactor,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Building      domain.Ref
	Floor         domain.Ref
	Department    domain.Ref
	IssueType     string
	Description   string
	ContactPerson string
	PhoneNumber   string
	Priority      string
}

// TicketListFilter describes the public listing filters. Building and
// department match by id or name.
type TicketListFilter struct {
	Status     string
	Priority   string
	Building   domain.Ref
	Department domain.Ref
	Search     string
}

// TicketPageFilter describes the staff console listing.
type TicketPageFilter struct {
	Status       string
	BuildingID   *int64
	DepartmentID *int64
	AssignedToID *int64
	Page         int
	PerPage      int
}

// TicketPage is one page of the staff console listing.
type TicketPage struct {
	Tickets []domain.Ticket
	Total   int
	Pages   int
	Page    int
	PerPage int
}

// StatusChange is the outcome of UpdateStatus.
type StatusChange struct {
	Ticket    *domain.Ticket
	OldStatus domain.TicketStatus
}

// Changed reports whether the status actually moved.
func (c *StatusChange) Changed() bool {
	return c.OldStatus != c.Ticket.Status
}

// AssignInput names the assignee by display name, by user id, or both.
type AssignInput struct {
	AssignedTo   string
	AssignedToID *int64
}

// CreateTicket files a new pending ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	issueType := strings.TrimSpace(input.IssueType)
	description := strings.TrimSpace(input.Description)
	missing := []string{}
	if input.Building.IsZero() {
		missing = append(missing, "building")
	}
	if input.Floor.IsZero() {
		missing = append(missing, "floor")
	}
	if input.Department.IsZero() {
		missing = append(missing, "department")
	}
	if issueType == "" {
		missing = append(missing, "issue_type")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	priority := domain.TicketPriorityMedium
	if p := strings.TrimSpace(input.Priority); p != "" {
		priority = domain.TicketPriority(strings.ToLower(p))
		if !priority.Valid() {
			return nil, domain.ErrInvalidPriority.WithDetails(map[string]any{"priority": input.Priority})
		}
	}

	ticket := &domain.Ticket{
		IssueType:     issueType,
		Description:   description,
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		PhoneNumber:   strings.TrimSpace(input.PhoneNumber),
		Priority:      priority,
		Status:        domain.TicketStatusPending,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		building, err := s.directory.ResolveBuilding(ctx, input.Building)
		if err != nil {
			return err
		}
		floor, err := s.directory.ResolveFloor(ctx, building, input.Floor)
		if err != nil {
			return err
		}
		dept, err := s.directory.ResolveDepartment(ctx, input.Department)
		if err != nil {
			return err
		}

		ticket.BuildingID, ticket.BuildingName = building.ID, building.Name
		ticket.FloorID, ticket.FloorLabel = floor.ID, floor.Label
		ticket.DepartmentID, ticket.DepartmentName = dept.ID, dept.Name
		ticket.CreatedAt = s.now()
		ticket.UpdatedAt = ticket.CreatedAt
		return s.tickets.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, ticket.CreatedAt, events.TicketCreatedPayload{
		Building:   ticket.BuildingName,
		Floor:      ticket.FloorLabel,
		Department: ticket.DepartmentName,
		IssueType:  ticket.IssueType,
		Priority:   ticket.Priority,
	}))
	return ticket, nil
}

// GetTicket returns one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketLookupError(err, id)
	}
	return ticket, nil
}

// UpdateStatus moves a ticket to a new status. The target is validated
// before anything is read or written.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*StatusChange, error) {
	next := domain.TicketStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus.WithDetails(map[string]any{
			"status":  status,
			"allowed": domain.TicketStatuses,
		})
	}

	var change *StatusChange
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			return ticketLookupError(err, id)
		}
		change = &StatusChange{Ticket: ticket, OldStatus: ticket.Status}
		ticket.ApplyStatus(next, s.now())
		if notes != nil && strings.TrimSpace(*notes) != "" {
			ticket.Notes = notes
		}
		return s.tickets.Update(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	t := change.Ticket
	s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, t.ID, t.UpdatedAt, events.TicketStatusChangedPayload{
		OldStatus:    change.OldStatus,
		NewStatus:    t.Status,
		Notification: t.Status.Notification(),
		Notes:        notes,
	}))
	return change, nil
}

// Assign records who is handling a ticket. An assignee id must name an
// existing user; its username becomes the display name unless one is given.
func (s *TicketService) Assign(ctx context.Context, id int64, input AssignInput) (*domain.Ticket, error) {
	name := strings.TrimSpace(input.AssignedTo)
	if name == "" && input.AssignedToID == nil {
		return nil, domain.ErrMissingAssignee
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByID(ctx, id)
		if err != nil {
			return ticketLookupError(err, id)
		}

		var assigneeID *int64
		if input.AssignedToID != nil {
			user, err := s.users.GetByID(ctx, *input.AssignedToID)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound.WithDetails(map[string]any{"user_id": *input.AssignedToID})
			}
			if err != nil {
				return err
			}
			uid := user.ID
			assigneeID = &uid
			if name == "" {
				name = user.Username
			}
		}

		ticket.AssignedTo = &name
		ticket.AssignedToID = assigneeID
		ticket.UpdatedAt = s.now()
		return s.tickets.Update(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketAssigned, ticket.ID, ticket.UpdatedAt, events.TicketAssignedPayload{
		AssignedTo:   name,
		AssignedToID: ticket.AssignedToID,
	}))
	return ticket, nil
}

// RateTicket stores requester feedback on a resolved or closed ticket.
func (s *TicketService) RateTicket(ctx context.Context, id int64, rating int, comment *string) (*domain.Ticket, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating.WithDetails(map[string]any{"rating": rating})
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByID(ctx, id)
		if err != nil {
			return ticketLookupError(err, id)
		}
		if !ticket.Rateable() {
			return domain.ErrTicketNotRatable.WithDetails(map[string]any{"status": ticket.Status})
		}
		ticket.Rating = &rating
		if comment != nil && strings.TrimSpace(*comment) != "" {
			trimmed := strings.TrimSpace(*comment)
			ticket.RatingComment = &trimmed
		}
		ticket.UpdatedAt = s.now()
		return s.tickets.Update(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketRated, ticket.ID, ticket.UpdatedAt, events.TicketRatedPayload{
		Rating:  rating,
		Comment: ticket.RatingComment,
	}))
	return ticket, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Delete(ctx, id); err != nil {
			return ticketLookupError(err, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publishEvent(ctx, events.NewEvent(events.EventTicketDeleted, id, s.now(), nil))
	return nil
}

// ListTickets returns the filtered tickets, newest first, with global
// per-status counts. Total counts the filtered list.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, *domain.TicketSummary, error) {
	repoFilter := repository.TicketFilter{Search: filter.Search}

	if st := strings.TrimSpace(filter.Status); st != "" {
		status := domain.TicketStatus(st)
		if !status.Valid() {
			return nil, nil, domain.ErrInvalidStatus.WithDetails(map[string]any{"status": st, "allowed": domain.TicketStatuses})
		}
		repoFilter.Status = &status
	}
	if p := strings.TrimSpace(filter.Priority); p != "" {
		priority := domain.TicketPriority(strings.ToLower(p))
		if !priority.Valid() {
			return nil, nil, domain.ErrInvalidPriority.WithDetails(map[string]any{"priority": p})
		}
		repoFilter.Priority = &priority
	}
	repoFilter.BuildingID, repoFilter.BuildingName = refFilter(filter.Building)
	repoFilter.DepartmentID, repoFilter.DepartmentName = refFilter(filter.Department)

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.TicketSummary{Total: len(tickets), ByStatus: make(map[domain.TicketStatus]int, len(domain.TicketStatuses))}
	for _, st := range domain.TicketStatuses {
		summary.ByStatus[st] = counts[st]
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, summary, nil
}

// ListTicketsPaged serves the staff console.
func (s *TicketService) ListTicketsPaged(ctx context.Context, filter TicketPageFilter) (*TicketPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	repoFilter := repository.TicketFilter{
		BuildingID:   filter.BuildingID,
		DepartmentID: filter.DepartmentID,
		AssignedToID: filter.AssignedToID,
	}
	if st := strings.TrimSpace(filter.Status); st != "" {
		status := domain.TicketStatus(st)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus.WithDetails(map[string]any{"status": st, "allowed": domain.TicketStatuses})
		}
		repoFilter.Status = &status
	}

	total, err := s.tickets.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	repoFilter.Limit = perPage
	repoFilter.Offset = (page - 1) * perPage
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}

	return &TicketPage{
		Tickets: tickets,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// Dashboard aggregates counts and the most recent tickets.
func (s *TicketService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	byStatus, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.tickets.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	byBuilding, err := s.tickets.CountByBuilding(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.tickets.List(ctx, repository.TicketFilter{Limit: recentTicketsLimit})
	if err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		StatusCounts:   make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		PriorityCounts: make(map[domain.TicketPriority]int, len(domain.TicketPriorities)),
		BuildingCounts: byBuilding,
		RecentTickets:  recent,
	}
	for _, st := range domain.TicketStatuses {
		dash.StatusCounts[st] = byStatus[st]
		dash.TotalTickets += byStatus[st]
	}
	for _, p := range domain.TicketPriorities {
		dash.PriorityCounts[p] = byPriority[p]
	}
	if dash.RecentTickets == nil {
		dash.RecentTickets = []domain.Ticket{}
	}
	return dash, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("ticket event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func refFilter(ref domain.Ref) (*int64, *string) {
	switch {
	case ref.ByID():
		id := ref.ID
		return &id, nil
	case ref.Name != "":
		name := ref.Name
		return nil, &name
	}
	return nil, nil
}

func ticketLookupError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrTicketNotFound.WithDetails(map[string]any{"ticket_id": id})
	}
	return err
}
