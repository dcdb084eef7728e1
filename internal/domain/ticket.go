package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// TicketStatuses lists every recognized status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusCancelled,
}

// Valid reports whether s is one of the recognized statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Notification is the message shown to the requester for a status.
func (s TicketStatus) Notification() string {
	switch s {
	case TicketStatusPending:
		return "Your ticket is pending review"
	case TicketStatusInProgress:
		return "ICT team is working on your issue"
	case TicketStatusResolved:
		return "Your issue has been resolved"
	case TicketStatusClosed:
		return "Ticket has been closed"
	case TicketStatusCancelled:
		return "Ticket has been cancelled"
	}
	return fmt.Sprintf("Ticket status: %s", s)
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every recognized priority, lowest first.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is one of the recognized priorities.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             int64
	BuildingID     int64
	BuildingName   string
	FloorID        int64
	FloorLabel     string
	DepartmentID   int64
	DepartmentName string
	IssueType      string
	Description    string
	ContactPerson  string
	PhoneNumber    string
	Priority       TicketPriority
	Status         TicketStatus
	AssignedTo     *string
	AssignedToID   *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
	Notes          *string
	Rating         *int
	RatingComment  *string
}

// ApplyStatus moves the ticket to next. resolved_at is stamped when the ticket
// enters resolved from another status and is never cleared, so re-saving a
// resolved ticket keeps the original resolution time.
func (t *Ticket) ApplyStatus(next TicketStatus, now time.Time) {
	if next == TicketStatusResolved && t.Status != TicketStatusResolved {
		resolved := now
		t.ResolvedAt = &resolved
	}
	t.Status = next
	t.UpdatedAt = now
}

// Rateable reports whether the requester may leave a rating.
func (t *Ticket) Rateable() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// CreatedNotification is the message returned when a ticket is filed.
func (t *Ticket) CreatedNotification() string {
	return fmt.Sprintf("Ticket #%d created successfully. You will be notified when status changes.", t.ID)
}

// TicketSummary carries live per-status counts next to a filtered listing.
type TicketSummary struct {
	Total    int
	ByStatus map[TicketStatus]int
}

// Dashboard aggregates ticket counts for the staff overview.
type Dashboard struct {
	StatusCounts   map[TicketStatus]int
	PriorityCounts map[TicketPriority]int
	BuildingCounts map[string]int
	RecentTickets  []Ticket
	TotalTickets   int
}
