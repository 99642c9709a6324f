package postgres

import (
	"context"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SavingsRepository implements domain.SavingsRepository using PostgreSQL.
// Inserts go through the ledger store alongside the mirrored transaction.
type SavingsRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsRepository creates a new SavingsRepository
func NewSavingsRepository(pool *pgxpool.Pool) *SavingsRepository {
	return &SavingsRepository{pool: pool}
}

// GetAllByUser retrieves a user's savings entries, newest first
func (r *SavingsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Savings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, description, date, created_at
		FROM savings
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Savings
	for rows.Next() {
		s, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
