package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerStore implements domain.LedgerStore on top of a pgx pool. Every
// Atomic call opens one database transaction; the LedgerTx handed to fn is
// bound to it for the duration of the call.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Atomic implements domain.LedgerStore
func (s *LedgerStore) Atomic(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ledgerTx implements domain.LedgerTx against one open pgx transaction.
type ledgerTx struct {
	tx pgx.Tx
}

// ProfileForUpdate locks the profile row for the remainder of the unit so
// concurrent check-then-act sequences against the same balance serialize.
func (l *ledgerTx) ProfileForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	row := l.tx.QueryRow(ctx, `
		SELECT id, user_id, monthly_income, money_on_hand, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE`,
		userID)
	return scanProfile(row)
}

func (l *ledgerTx) ActiveBudgetTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := l.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM budgets
		WHERE user_id = $1 AND is_active = true`,
		userID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func (l *ledgerTx) SetMoneyOnHand(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	num, err := decimalToPgNumeric(balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	tag, err := l.tx.Exec(ctx, `
		UPDATE profiles
		SET money_on_hand = $2, updated_at = now()
		WHERE user_id = $1`,
		userID, num)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := l.tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, title, description, amount, transaction_type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, category_id, title, description, amount, transaction_type, date, receipt_key, created_at`,
		t.UserID, t.CategoryID, t.Title, t.Description, amount, string(t.Type), t.Date)
	return scanTransaction(row)
}

func (l *ledgerTx) InsertBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(b.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := l.tx.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, name, amount, budget_type, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		RETURNING id, user_id, category_id, name, amount, budget_type, start_date, end_date, is_active, created_at`,
		b.UserID, b.CategoryID, b.Name, amount, string(b.Type), b.StartDate, b.EndDate)
	return scanBudget(row)
}

func (l *ledgerTx) BudgetForUpdate(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := l.tx.QueryRow(ctx, `
		SELECT id, user_id, category_id, name, amount, budget_type, start_date, end_date, is_active, created_at
		FROM budgets
		WHERE user_id = $1 AND id = $2
		FOR UPDATE`,
		userID, id)
	return scanBudget(row)
}

func (l *ledgerTx) UpdateBudgetAmount(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.Budget, error) {
	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := l.tx.QueryRow(ctx, `
		UPDATE budgets
		SET amount = $3
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, category_id, name, amount, budget_type, start_date, end_date, is_active, created_at`,
		userID, id, num)
	return scanBudget(row)
}

func (l *ledgerTx) DeactivateBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := l.tx.QueryRow(ctx, `
		UPDATE budgets
		SET is_active = false
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, category_id, name, amount, budget_type, start_date, end_date, is_active, created_at`,
		userID, id)
	return scanBudget(row)
}

func (l *ledgerTx) InsertSavings(ctx context.Context, s *domain.Savings) (*domain.Savings, error) {
	amount, err := decimalToPgNumeric(s.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := l.tx.QueryRow(ctx, `
		INSERT INTO savings (user_id, amount, description, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, amount, description, date, created_at`,
		s.UserID, amount, s.Description, s.Date)
	return scanSavings(row)
}

// GetOrCreateCategory returns the user's first category of the given type,
// creating one with the given name when none exists. The insert races with
// concurrent units on the unique (user_id, name) constraint; on conflict we
// re-read the winner.
func (l *ledgerTx) GetOrCreateCategory(ctx context.Context, userID uuid.UUID, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	category, err := l.categoryByType(ctx, userID, categoryType)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	row := l.tx.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, category_type, color)
		VALUES ($1, $2, $3, '#6c757d')
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id, user_id, name, category_type, color, created_at`,
		userID, name, string(categoryType))
	category, err = scanCategory(row)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return l.categoryByType(ctx, userID, categoryType)
}

func (l *ledgerTx) categoryByType(ctx context.Context, userID uuid.UUID, categoryType domain.CategoryType) (*domain.Category, error) {
	row := l.tx.QueryRow(ctx, `
		SELECT id, user_id, name, category_type, color, created_at
		FROM categories
		WHERE user_id = $1 AND category_type = $2
		ORDER BY id
		LIMIT 1`,
		userID, string(categoryType))
	return scanCategory(row)
}

// Row scanners shared with the read-side repositories.

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var income, balance pgtype.Numeric
	err := row.Scan(&p.ID, &p.UserID, &income, &balance, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	p.MonthlyIncome = pgNumericToDecimal(income)
	p.MoneyOnHand = pgNumericToDecimal(balance)
	return &p, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var amount pgtype.Numeric
	var budgetType string
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &amount, &budgetType,
		&b.StartDate, &b.EndDate, &b.IsActive, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	b.Type = domain.BudgetType(budgetType)
	return &b, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var amount pgtype.Numeric
	var txType string
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Title, &t.Description,
		&amount, &txType, &t.Date, &t.ReceiptKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	return &t, nil
}

func scanSavings(row pgx.Row) (*domain.Savings, error) {
	var s domain.Savings
	var amount pgtype.Numeric
	err := row.Scan(&s.ID, &s.UserID, &amount, &s.Description, &s.Date, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Amount = pgNumericToDecimal(amount)
	return &s, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var categoryType string
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &categoryType, &c.Color, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = domain.CategoryType(categoryType)
	return &c, nil
}
