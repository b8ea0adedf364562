package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taller-manrubia/workshop-service/internal/api/dto"
	"github.com/taller-manrubia/workshop-service/internal/billing"
	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/service"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

// TicketsHandler manages the operator-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets?status=&search=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	status, err := parseStatus(c.Query("status"))
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), status, c.Query("search"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		Name:  req.Name,
		Phone: req.Phone,
		Work:  workDescription(req.Work),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ToggleTask PATCH /tickets/:id/tasks/:index.
func (h *TicketsHandler) ToggleTask(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return apperrors.NewValidationError("task index must be a number", nil)
	}
	ticket, err := h.service.ToggleTask(c.UserContext(), c.Params("id"), index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// FinishTicket POST /tickets/:id/finish.
func (h *TicketsHandler) FinishTicket(c *fiber.Ctx) error {
	var req dto.FinishTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, message, err := h.service.Finish(c.UserContext(), c.Params("id"), billingInput(req.Mode, req.Price, req.Items))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FinishTicketResponse{
		Ticket:       ticketResponse(ticket),
		Notification: *message,
	}})
}

// DeleteTicket DELETE /tickets/:id. The yes/no confirmation is the UI's
// gate; by the time the request arrives the decision is made.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseStatus(raw string) (*domain.TicketStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := domain.TicketStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case domain.TicketStatusInProgress, domain.TicketStatusFinished:
		return &status, nil
	default:
		return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
	}
}

func workDescription(input dto.WorkInput) domain.WorkDescription {
	mode := domain.WorkMode(strings.ToUpper(strings.TrimSpace(input.Mode)))
	if mode != domain.WorkFreeText && mode != domain.WorkTaskList {
		if len(input.Tasks) > 0 {
			mode = domain.WorkTaskList
		} else {
			mode = domain.WorkFreeText
		}
	}
	work := domain.WorkDescription{Mode: mode}
	switch mode {
	case domain.WorkTaskList:
		for _, task := range input.Tasks {
			before := len(work.Tasks)
			work.Tasks = domain.AddTask(work.Tasks, task.Text)
			if task.Done && len(work.Tasks) > before {
				work.Tasks[len(work.Tasks)-1].Done = true
			}
		}
	default:
		work.Text = strings.TrimSpace(input.Text)
	}
	return work
}

func billingInput(mode, price string, items []dto.LineItemInput) billing.Input {
	input := billing.Input{Price: price}
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case string(billing.ModeItemized):
		input.Mode = billing.ModeItemized
	case string(billing.ModeFlat):
		input.Mode = billing.ModeFlat
	default:
		if len(items) > 0 {
			input.Mode = billing.ModeItemized
		} else {
			input.Mode = billing.ModeFlat
		}
	}
	for _, item := range items {
		input.Items = append(input.Items, billing.ItemInput{Label: item.Label, Amount: item.Amount})
	}
	return input
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:            ticket.ID,
		CustomerName:  ticket.CustomerName,
		CustomerPhone: ticket.CustomerPhone,
		Work:          ticket.Work,
		Status:        ticket.Status,
		CreatedAt:     ticket.CreatedAt,
		FinishedAt:    ticket.FinishedAt,
	}
	if ticket.Billing != nil {
		resp.Billing = &dto.BillingResponse{
			Total:     ticket.Billing.Total,
			Breakdown: ticket.Billing.Breakdown,
		}
	}
	return resp
}
