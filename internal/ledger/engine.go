// Package ledger owns every mutation of Profile.MoneyOnHand. Services route
// all balance effects through Engine inside a LedgerStore atomic unit; no
// other code path writes the balance.
package ledger

import (
	"context"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine applies transaction effects and budget allocation
// reservations/releases to a profile's balance. It is stateless; callers
// supply the transactional view so every read-modify-write sequence runs
// under the profile row lock of one atomic unit.
type Engine struct{}

// NewEngine creates a new Engine
func NewEngine() *Engine {
	return &Engine{}
}

// ApplyTransaction adjusts the owning profile's balance for a transaction
// created in the same atomic unit: income adds the amount, expense and
// savings subtract it. The balance is always re-read under lock and a null
// balance counts as zero. Transaction types are validated at construction,
// so the default branch is unreachable in practice; it still leaves the
// balance untouched rather than guessing a sign.
func (e *Engine) ApplyTransaction(ctx context.Context, tx domain.LedgerTx, t *domain.Transaction) error {
	profile, err := tx.ProfileForUpdate(ctx, t.UserID)
	if err != nil {
		return err
	}

	balance := profile.MoneyOnHand
	switch t.Type {
	case domain.TransactionTypeIncome:
		balance = balance.Add(t.Amount)
	case domain.TransactionTypeExpense, domain.TransactionTypeSavings:
		balance = balance.Sub(t.Amount)
	default:
		return nil
	}

	return tx.SetMoneyOnHand(ctx, t.UserID, balance)
}

// AllocateBudget reserves amount from the profile's available-to-allocate
// pool. It must be called before the budget row is inserted, in the same
// atomic unit, so a failed reservation aborts the whole creation.
func (e *Engine) AllocateBudget(ctx context.Context, tx domain.LedgerTx, userID uuid.UUID, amount *decimal.Decimal) error {
	if amount == nil {
		return domain.ErrAmountRequired
	}

	profile, err := tx.ProfileForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	allocated, err := tx.ActiveBudgetTotal(ctx, userID)
	if err != nil {
		return err
	}

	available := profile.MoneyOnHand.Sub(allocated)
	if amount.GreaterThan(available) {
		return domain.ErrInsufficientFunds
	}

	return tx.SetMoneyOnHand(ctx, userID, profile.MoneyOnHand.Sub(*amount))
}

// AdjustAllocation handles a budget amount change. An increase is treated
// exactly like an additional allocation of the delta; a decrease refunds
// the freed funds. The availability check for an increase already excludes
// the budget's old amount, because the old amount is still counted in the
// active total.
func (e *Engine) AdjustAllocation(ctx context.Context, tx domain.LedgerTx, userID uuid.UUID, oldAmount, newAmount decimal.Decimal) error {
	delta := newAmount.Sub(oldAmount)
	if delta.IsZero() {
		return nil
	}

	profile, err := tx.ProfileForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	if delta.IsPositive() {
		allocated, err := tx.ActiveBudgetTotal(ctx, userID)
		if err != nil {
			return err
		}
		available := profile.MoneyOnHand.Sub(allocated)
		if delta.GreaterThan(available) {
			return domain.ErrInsufficientFunds
		}
	}

	// delta is negative on a decrease, so subtracting it adds the refund back.
	return tx.SetMoneyOnHand(ctx, userID, profile.MoneyOnHand.Sub(delta))
}
