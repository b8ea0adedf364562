package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taller-manrubia/workshop-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Listing is always
// ordered by creation time, newest first.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, status *domain.TicketStatus) ([]domain.Ticket, error)
	UpdateTasks(ctx context.Context, id string, tasks []domain.TaskItem) error
	Finish(ctx context.Context, id string, finishedAt time.Time, billing domain.Billing) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (customer_name, customer_phone, work_mode, work_text, work_tasks, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	tasks := ticket.Work.Tasks
	if tasks == nil {
		tasks = []domain.TaskItem{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.Work.Mode,
		ticket.Work.Text,
		tasks,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, customer_name, customer_phone, work_mode, work_text, work_tasks,
               status, created_at, finished_at, billing_total, billing_breakdown
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	var total *float64
	var breakdown []domain.LineItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerName,
		&ticket.CustomerPhone,
		&ticket.Work.Mode,
		&ticket.Work.Text,
		&ticket.Work.Tasks,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.FinishedAt,
		&total,
		&breakdown,
	); err != nil {
		return nil, err
	}
	attachBilling(&ticket, total, breakdown)
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, status *domain.TicketStatus) ([]domain.Ticket, error) {
	base := `SELECT id, customer_name, customer_phone, work_mode, work_text, work_tasks,
                    status, created_at, finished_at, billing_total, billing_breakdown
             FROM tickets`
	args := []any{}
	if status != nil {
		base += ` WHERE status=$1`
		args = append(args, *status)
	}
	base += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateTasks(ctx context.Context, id string, tasks []domain.TaskItem) error {
	const query = `UPDATE tickets SET work_tasks=$1 WHERE id=$2 AND status=$3`
	if tasks == nil {
		tasks = []domain.TaskItem{}
	}
	cmd, err := r.pool.Exec(ctx, query, tasks, id, domain.TicketStatusInProgress)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Finish commits the one-way transition. The status guard in the WHERE
// clause keeps a stale read from finishing the same ticket twice.
func (r *ticketRepository) Finish(ctx context.Context, id string, finishedAt time.Time, billing domain.Billing) error {
	const query = `
        UPDATE tickets SET status=$1, finished_at=$2, billing_total=$3, billing_breakdown=$4
        WHERE id=$5 AND status=$6`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusFinished,
		finishedAt,
		billing.Total,
		billing.Breakdown,
		id,
		domain.TicketStatusInProgress,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var total *float64
		var breakdown []domain.LineItem
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerName,
			&ticket.CustomerPhone,
			&ticket.Work.Mode,
			&ticket.Work.Text,
			&ticket.Work.Tasks,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.FinishedAt,
			&total,
			&breakdown,
		); err != nil {
			return nil, err
		}
		attachBilling(&ticket, total, breakdown)
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func attachBilling(ticket *domain.Ticket, total *float64, breakdown []domain.LineItem) {
	if total == nil {
		return
	}
	ticket.Billing = &domain.Billing{Total: *total, Breakdown: breakdown}
}
