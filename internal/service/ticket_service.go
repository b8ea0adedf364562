package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/taller-manrubia/workshop-service/internal/billing"
	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/events"
	"github.com/taller-manrubia/workshop-service/internal/notify"
	"github.com/taller-manrubia/workshop-service/internal/repository"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

// TicketService coordinates the repair ticket lifecycle: creation,
// task mutation, the one-way finish transition and deletion.
type TicketService struct {
	tickets    repository.TicketRepository
	directory  *DirectoryService
	composer   *notify.Composer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Directory  *DirectoryService
	Composer   *notify.Composer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name  string
	Phone string
	Work  domain.WorkDescription
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		directory:  deps.Directory,
		composer:   deps.Composer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create validates and inserts a new in-progress ticket, then records the
// customer in the directory. Validation failures reach no store write.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	name := strings.TrimSpace(input.Name)
	phoneRaw := strings.TrimSpace(input.Phone)
	if name == "" || phoneRaw == "" || input.Work.Empty() {
		return nil, apperrors.NewValidationError("name, phone and at least one task are required", nil)
	}

	ticket := &domain.Ticket{
		CustomerName:  name,
		CustomerPhone: phoneRaw,
		Work:          input.Work,
		Status:        domain.TicketStatusInProgress,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// Best effort: a directory failure never invalidates the ticket.
	if err := s.directory.EnsureRecorded(ctx, name, phoneRaw); err != nil {
		s.logger.Warn("directory insert failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerName:  ticket.CustomerName,
			CustomerPhone: ticket.CustomerPhone,
			WorkMode:      ticket.Work.Mode,
			TaskCount:     len(ticket.Work.Tasks),
		},
	})
	return ticket, nil
}

// List returns tickets filtered by status and search term. The search
// matches the customer name case-insensitively or the raw phone, and is
// combined with the status filter.
func (s *TicketService) List(ctx context.Context, status *domain.TicketStatus, search string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, status)
	if err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	if search == "" {
		return tickets, nil
	}
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if matchesSearch(&ticket, search) {
			filtered = append(filtered, ticket)
		}
	}
	return filtered, nil
}

// ToggleTask flips the done flag of one checklist item on a stored
// in-progress ticket.
func (s *TicketService) ToggleTask(ctx context.Context, ticketID string, index int) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("ticket is already finished", nil)
	}
	if ticket.Work.Mode != domain.WorkTaskList {
		return nil, apperrors.NewValidationError("ticket has no task list", nil)
	}
	if index < 0 || index >= len(ticket.Work.Tasks) {
		return nil, apperrors.NewValidationError("task index out of range", map[string]any{"index": index})
	}
	ticket.Work.Tasks = domain.ToggleTask(ticket.Work.Tasks, index)
	if err := s.tickets.UpdateTasks(ctx, ticket.ID, ticket.Work.Tasks); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Finish moves an in-progress ticket to finished, attaching the composed
// billing, and returns the rendered customer notification. Opening the
// deep link is the caller's side effect; a dismissed hand-off does not
// roll the transition back.
func (s *TicketService) Finish(ctx context.Context, ticketID string, input billing.Input) (*domain.Ticket, *notify.Message, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.Status != domain.TicketStatusInProgress {
		return nil, nil, apperrors.NewConflict("ticket is already finished", nil)
	}

	bill, err := billing.Compose(input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.tickets.Finish(ctx, ticket.ID, now, *bill); err != nil {
		// The snapshot was stale: someone finished or deleted the ticket
		// between our read and this write.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewConflict("ticket is no longer in progress", nil)
		}
		return nil, nil, err
	}

	ticket.Status = domain.TicketStatusFinished
	ticket.FinishedAt = &now
	ticket.Billing = bill

	message, err := s.composer.Compose(ticket)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketFinished,
		TicketID: ticket.ID,
		Payload: events.TicketFinishedPayload{
			CustomerName:  ticket.CustomerName,
			CustomerPhone: ticket.CustomerPhone,
			Total:         bill.Total,
			DeepLink:      message.DeepLink,
		},
	})
	return ticket, &message, nil
}

// Delete removes a ticket from the store regardless of state. Operator
// confirmation happens before the request reaches this service. The
// directory keeps its entry.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Payload:  events.TicketDeletedPayload{Status: ticket.Status},
	})
	return nil
}

func matchesSearch(ticket *domain.Ticket, term string) bool {
	return strings.Contains(strings.ToLower(ticket.CustomerName), strings.ToLower(term)) ||
		strings.Contains(ticket.CustomerPhone, term)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
