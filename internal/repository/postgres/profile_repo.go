package postgres

import (
	"context"
	"fmt"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL.
// It is read-mostly: money_on_hand is written only through a LedgerTx.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByUserID retrieves a profile by user ID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, monthly_income, money_on_hand, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`,
		userID)
	return scanProfile(row)
}

// UpdateMonthlyIncome updates the informational monthly income figure
func (r *ProfileRepository) UpdateMonthlyIncome(ctx context.Context, userID uuid.UUID, income decimal.Decimal) (*domain.Profile, error) {
	num, err := decimalToPgNumeric(income)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly income: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET monthly_income = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING id, user_id, monthly_income, money_on_hand, created_at, updated_at`,
		userID, num)
	return scanProfile(row)
}
