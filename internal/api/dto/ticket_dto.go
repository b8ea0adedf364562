package dto

import (
	"time"

	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/notify"
)

// TaskInput is one checklist entry in a creation request.
type TaskInput struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// WorkInput carries the work description of a creation request. Mode
// defaults to a task list when tasks are present.
type WorkInput struct {
	Mode  string      `json:"mode"`
	Text  string      `json:"text"`
	Tasks []TaskInput `json:"tasks"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Work  WorkInput `json:"work"`
}

// LineItemInput is one invoice row as typed by the operator. Amount stays
// a string so partially typed values round-trip through previews.
type LineItemInput struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// FinishTicketRequest payload. Price is used in flat mode, Items in
// itemized mode.
type FinishTicketRequest struct {
	Mode  string          `json:"mode"`
	Price string          `json:"price"`
	Items []LineItemInput `json:"items"`
}

// BillingPreviewRequest payload for live recomputation.
type BillingPreviewRequest struct {
	Mode  string          `json:"mode"`
	Price string          `json:"price"`
	Items []LineItemInput `json:"items"`
}

// BillingResponse is a composed invoice.
type BillingResponse struct {
	Total     float64           `json:"total"`
	Breakdown []domain.LineItem `json:"breakdown,omitempty"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID            string                 `json:"id"`
	CustomerName  string                 `json:"customer_name"`
	CustomerPhone string                 `json:"customer_phone"`
	Work          domain.WorkDescription `json:"work"`
	Status        domain.TicketStatus    `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	FinishedAt    *time.Time             `json:"finished_at,omitempty"`
	Billing       *BillingResponse       `json:"billing,omitempty"`
}

// FinishTicketResponse returns the updated ticket together with the
// rendered customer notification.
type FinishTicketResponse struct {
	Ticket       TicketResponse `json:"ticket"`
	Notification notify.Message `json:"notification"`
}
