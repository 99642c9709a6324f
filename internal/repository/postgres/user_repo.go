package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, email, first_name, password_hash, created_at, updated_at`

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// CreateWithProfile inserts the user, their profile seeded with the opening
// balance, and the default category set in one transaction. Unique violations
// on username or email map to the matching domain errors.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile, categories []*domain.Category) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin registration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Username, user.Email, user.FirstName, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	income, err := decimalToPgNumeric(profile.MonthlyIncome)
	if err != nil {
		return nil, fmt.Errorf("invalid monthly income: %w", err)
	}
	balance, err := decimalToPgNumeric(profile.MoneyOnHand)
	if err != nil {
		return nil, fmt.Errorf("invalid opening balance: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO profiles (user_id, monthly_income, money_on_hand)
		VALUES ($1, $2, $3)`,
		created.ID, income, balance); err != nil {
		return nil, err
	}

	for _, c := range categories {
		if _, err := tx.Exec(ctx, `
			INSERT INTO categories (user_id, name, category_type, color)
			VALUES ($1, $2, $3, $4)`,
			created.ID, c.Name, string(c.Type), c.Color); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
