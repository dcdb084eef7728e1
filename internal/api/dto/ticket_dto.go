package dto

import (
	"time"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// CreateTicketRequest payload. Required fields are checked by the ticket
// service so the error lists every missing field at once.
type CreateTicketRequest struct {
	Building      RefValue `json:"building"`
	Floor         RefValue `json:"floor"`
	Department    RefValue `json:"department"`
	IssueType     string   `json:"issue_type" validate:"max=100"`
	Description   string   `json:"description" validate:"max=5000"`
	ContactPerson string   `json:"contact_person" validate:"max=100"`
	PhoneNumber   string   `json:"phone_number" validate:"max=20"`
	Priority      string   `json:"priority"`
}

// StatusUpdateRequest payload for PUT /tickets/:id/status.
type StatusUpdateRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

// AssignRequest payload; one of the two fields is required.
type AssignRequest struct {
	AssignedTo   string `json:"assigned_to" validate:"max=100"`
	AssignedToID *int64 `json:"assigned_to_id"`
}

// RatingRequest payload for POST /tickets/:id/rating.
type RatingRequest struct {
	Rating  int     `json:"rating" validate:"required"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// TicketResponse is the public ticket representation.
type TicketResponse struct {
	ID            int64      `json:"id"`
	BuildingID    int64      `json:"building_id"`
	Building      string     `json:"building"`
	FloorID       int64      `json:"floor_id"`
	Floor         string     `json:"floor"`
	DepartmentID  int64      `json:"department_id"`
	Department    string     `json:"department"`
	IssueType     string     `json:"issue_type"`
	Description   string     `json:"description"`
	ContactPerson string     `json:"contact_person"`
	PhoneNumber   string     `json:"phone_number"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
	AssignedToID  *int64     `json:"assigned_to_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	Notes         *string    `json:"notes"`
	Rating        *int       `json:"rating"`
	RatingComment *string    `json:"rating_comment"`
	Notification  string     `json:"notification"`
}

// TicketSummaryResponse carries global per-status counts next to a listing.
type TicketSummaryResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Cancelled  int `json:"cancelled"`
}

// DashboardResponse aggregates counts for the overview page.
type DashboardResponse struct {
	StatusCounts   map[string]int   `json:"status_counts"`
	PriorityCounts map[string]int   `json:"priority_counts"`
	BuildingCounts map[string]int   `json:"building_counts"`
	RecentTickets  []TicketResponse `json:"recent_tickets"`
	TotalTickets   int              `json:"total_tickets"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		BuildingID:    t.BuildingID,
		Building:      t.BuildingName,
		FloorID:       t.FloorID,
		Floor:         t.FloorLabel,
		DepartmentID:  t.DepartmentID,
		Department:    t.DepartmentName,
		IssueType:     t.IssueType,
		Description:   t.Description,
		ContactPerson: t.ContactPerson,
		PhoneNumber:   t.PhoneNumber,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		AssignedTo:    t.AssignedTo,
		AssignedToID:  t.AssignedToID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		ResolvedAt:    t.ResolvedAt,
		Notes:         t.Notes,
		Rating:        t.Rating,
		RatingComment: t.RatingComment,
		Notification:  t.Status.Notification(),
	}
}

// NewTicketResponses maps a slice, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewTicketSummaryResponse flattens the per-status counts.
func NewTicketSummaryResponse(s *domain.TicketSummary) TicketSummaryResponse {
	return TicketSummaryResponse{
		Total:      s.Total,
		Pending:    s.ByStatus[domain.TicketStatusPending],
		InProgress: s.ByStatus[domain.TicketStatusInProgress],
		Resolved:   s.ByStatus[domain.TicketStatusResolved],
		Closed:     s.ByStatus[domain.TicketStatusClosed],
		Cancelled:  s.ByStatus[domain.TicketStatusCancelled],
	}
}

// NewDashboardResponse maps dashboard aggregates, listing every status and
// priority even when its count is zero.
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	status := make(map[string]int, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		status[string(s)] = d.StatusCounts[s]
	}
	priority := make(map[string]int, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		priority[string(p)] = d.PriorityCounts[p]
	}
	buildings := make(map[string]int, len(d.BuildingCounts))
	for name, n := range d.BuildingCounts {
		buildings[name] = n
	}
	return DashboardResponse{
		StatusCounts:   status,
		PriorityCounts: priority,
		BuildingCounts: buildings,
		RecentTickets:  NewTicketResponses(d.RecentTickets),
		TotalTickets:   d.TotalTickets,
	}
}
