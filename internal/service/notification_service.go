package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/taller-manrubia/workshop-service/internal/events"
)

// NotificationService observes lifecycle events. The actual message
// hand-off happens in the operator's browser via the deep link returned
// from the finish endpoint; this service records the outcome so a
// dismissed hand-off still leaves a trace.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketFinished, n.handleTicketFinished)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketDeleted)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketFinished(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketFinished", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.TicketFinishedPayload); ok {
		n.logger.Debug("pickup message handed off",
			zap.String("ticket_id", event.TicketID),
			zap.String("deep_link", payload.DeepLink))
	}
	return nil
}

func (n *NotificationService) handleTicketDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketDeleted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}
