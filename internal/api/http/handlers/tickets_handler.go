package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/service"
)

// TicketsHandler serves the public ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	ticket, err := h.create(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Ticket created successfully",
		"ticket_id":    ticket.ID,
		"status":       ticket.Status,
		"notification": ticket.CreatedNotification(),
		"ticket":       dto.NewTicketResponse(ticket),
	})
}

func (h *TicketsHandler) create(c *fiber.Ctx) (*domain.Ticket, error) {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	return h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Building:      req.Building.Ref,
		Floor:         req.Floor.Ref,
		Department:    req.Department.Ref,
		IssueType:     req.IssueType,
		Description:   req.Description,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		Priority:      req.Priority,
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, summary, err := h.service.ListTickets(c.UserContext(), service.TicketListFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Building:   domain.ParseRef(c.Query("building")),
		Department: domain.ParseRef(c.Query("department")),
		Search:     c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tickets": dto.NewTicketResponses(tickets),
		"summary": dto.NewTicketSummaryResponse(summary),
	})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	change, err := h.updateStatus(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":        "Ticket status updated successfully",
		"ticket_id":      change.Ticket.ID,
		"status":         change.Ticket.Status,
		"notification":   change.Ticket.Status.Notification(),
		"status_changed": change.Changed(),
		"ticket":         dto.NewTicketResponse(change.Ticket),
	})
}

func (h *TicketsHandler) updateStatus(c *fiber.Ctx) (*service.StatusChange, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	return h.service.UpdateStatus(c.UserContext(), id, req.Status, req.Notes)
}

// Assign PUT /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.Assign(c.UserContext(), id, service.AssignInput{
		AssignedTo:   req.AssignedTo,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return err
	}
	assignee := ""
	if ticket.AssignedTo != nil {
		assignee = *ticket.AssignedTo
	}
	return c.JSON(fiber.Map{
		"message":      "Ticket assigned successfully",
		"ticket_id":    ticket.ID,
		"assigned_to":  assignee,
		"notification": fmt.Sprintf("Ticket #%d assigned to %s", ticket.ID, assignee),
		"ticket":       dto.NewTicketResponse(ticket),
	})
}

// Rate POST /tickets/:id/rating.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RatingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.RateTicket(c.UserContext(), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Thank you for rating your support experience",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted successfully", "ticket_id": id})
}

// Dashboard GET /dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(dash))
}

// ListTicketsPaged GET /admin/tickets.
func (h *TicketsHandler) ListTicketsPaged(c *fiber.Ctx) error {
	filter := service.TicketPageFilter{
		Status:  c.Query("status"),
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
	}
	var err error
	if filter.BuildingID, err = queryInt64(c, "building_id"); err != nil {
		return err
	}
	if filter.DepartmentID, err = queryInt64(c, "department_id"); err != nil {
		return err
	}
	if filter.AssignedToID, err = queryInt64(c, "assigned_to_id"); err != nil {
		return err
	}

	page, err := h.service.ListTicketsPaged(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tickets":      dto.NewTicketResponses(page.Tickets),
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.Page,
		"per_page":     page.PerPage,
	})
}

// StaffCreateTicket POST /admin/tickets.
func (h *TicketsHandler) StaffCreateTicket(c *fiber.Ctx) error {
	ticket, err := h.create(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// StaffUpdateStatus PATCH /admin/tickets/:id/status.
func (h *TicketsHandler) StaffUpdateStatus(c *fiber.Ctx) error {
	change, err := h.updateStatus(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket status updated successfully",
		"ticket":  dto.NewTicketResponse(change.Ticket),
	})
}
