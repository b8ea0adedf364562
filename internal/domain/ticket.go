package domain

import "time"

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusFinished   TicketStatus = "FINISHED"
)

// WorkMode distinguishes the two shapes a work description can take.
type WorkMode string

const (
	WorkFreeText WorkMode = "FREE_TEXT"
	WorkTaskList WorkMode = "TASK_LIST"
)

// TaskItem is one entry of a task-list work description.
type TaskItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// WorkDescription is a tagged variant: free text or an ordered task list.
// Mode selects which of Text/Tasks is meaningful.
type WorkDescription struct {
	Mode  WorkMode   `json:"mode"`
	Text  string     `json:"text,omitempty"`
	Tasks []TaskItem `json:"tasks,omitempty"`
}

// Empty reports whether the description carries no actual work.
func (w WorkDescription) Empty() bool {
	switch w.Mode {
	case WorkTaskList:
		return len(w.Tasks) == 0
	default:
		return isBlank(w.Text)
	}
}

// LineItem is a labeled charge inside an invoice breakdown.
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Billing is the invoice attached to a finished ticket. Breakdown is nil
// for flat-priced tickets.
type Billing struct {
	Total     float64    `json:"total"`
	Breakdown []LineItem `json:"breakdown,omitempty"`
}

// Ticket is the aggregate for a repair order. CustomerPhone is immutable
// after creation; FinishedAt and Billing are set iff Status is FINISHED.
type Ticket struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	Work          WorkDescription
	Status        TicketStatus
	CreatedAt     time.Time
	FinishedAt    *time.Time
	Billing       *Billing
}
