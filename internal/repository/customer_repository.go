package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taller-manrubia/workshop-service/internal/domain"
)

// CustomerRepository defines persistence access for the append-only
// customer directory.
type CustomerRepository interface {
	// Insert records a directory entry unless one already exists for the
	// same normalized phone. It reports whether a row was written.
	Insert(ctx context.Context, record *domain.CustomerRecord) (bool, error)
	GetByNormalizedPhone(ctx context.Context, normalized string) (*domain.CustomerRecord, error)
	List(ctx context.Context) ([]domain.CustomerRecord, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Insert(ctx context.Context, record *domain.CustomerRecord) (bool, error) {
	const query = `
        INSERT INTO customers (name, phone, phone_normalized)
        VALUES ($1, $2, $3)
        ON CONFLICT (phone_normalized) DO NOTHING`

	cmd, err := r.pool.Exec(ctx, query, record.Name, record.Phone, record.PhoneNormalized)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *customerRepository) GetByNormalizedPhone(ctx context.Context, normalized string) (*domain.CustomerRecord, error) {
	const query = `
        SELECT id, name, phone, phone_normalized, created_at
        FROM customers WHERE phone_normalized=$1
        ORDER BY created_at ASC LIMIT 1`

	var record domain.CustomerRecord
	if err := r.pool.QueryRow(ctx, query, normalized).Scan(
		&record.ID,
		&record.Name,
		&record.Phone,
		&record.PhoneNormalized,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.CustomerRecord, error) {
	const query = `
        SELECT id, name, phone, phone_normalized, created_at
        FROM customers ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomerRecord
	for rows.Next() {
		var record domain.CustomerRecord
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Phone,
			&record.PhoneNormalized,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
