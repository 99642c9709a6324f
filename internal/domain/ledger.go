package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTx is the transactional view over one atomic unit of ledger writes.
// Implementations hold an open database transaction: every method runs
// against it, and either all writes commit or none do.
//
// SetMoneyOnHand is the only balance setter in the codebase. It is called
// exclusively by ledger.Engine, which is the sole authority for mutating
// Profile.MoneyOnHand.
type LedgerTx interface {
	// ProfileForUpdate re-reads the profile row with a row lock held for
	// the remainder of the unit, so concurrent check-then-act sequences
	// against the same profile serialize.
	ProfileForUpdate(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// ActiveBudgetTotal sums the amounts of the user's active budgets.
	ActiveBudgetTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	SetMoneyOnHand(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error

	InsertTransaction(ctx context.Context, t *Transaction) (*Transaction, error)
	InsertBudget(ctx context.Context, b *Budget) (*Budget, error)
	BudgetForUpdate(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	UpdateBudgetAmount(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*Budget, error)
	DeactivateBudget(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	InsertSavings(ctx context.Context, s *Savings) (*Savings, error)
	GetOrCreateCategory(ctx context.Context, userID uuid.UUID, categoryType CategoryType, name string) (*Category, error)
}

// LedgerStore opens atomic units against the ledger. A non-nil error from fn
// rolls back everything fn staged.
type LedgerStore interface {
	Atomic(ctx context.Context, fn func(tx LedgerTx) error) error
}
