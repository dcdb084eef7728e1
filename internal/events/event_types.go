package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketRated         EventType = "ticket_rated"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// TicketEventTypes lists every ticket event, in lifecycle order.
var TicketEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketAssigned,
	EventTicketRated,
	EventTicketDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps a fresh id on an event.
func NewEvent(eventType EventType, ticketID int64, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Building   string                `json:"building"`
	Floor      string                `json:"floor"`
	Department string                `json:"department"`
	IssueType  string                `json:"issue_type"`
	Priority   domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Notification string              `json:"notification"`
	Notes        *string             `json:"notes,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo   string `json:"assigned_to"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}
