package events

import (
	"time"

	"github.com/taller-manrubia/workshop-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketFinished EventType = "ticket_finished"
	EventTicketDeleted  EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	WorkMode      domain.WorkMode `json:"work_mode"`
	TaskCount     int             `json:"task_count"`
}

// TicketFinishedPayload payload. DeepLink is the messaging hand-off URL;
// opening it is not transactionally linked to the state transition.
type TicketFinishedPayload struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Total         float64 `json:"total"`
	DeepLink      string  `json:"deep_link"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Status domain.TicketStatus `json:"status"`
}
