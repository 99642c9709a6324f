package service

import (
	"context"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/ledger"
	"github.com/financehub/financehub-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService creates, updates, and closes budgets, coordinating the
// allocation reservation and release through the ledger engine.
type BudgetService struct {
	store      domain.LedgerStore
	engine     *ledger.Engine
	budgetRepo domain.BudgetRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(store domain.LedgerStore, engine *ledger.Engine, budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{
		store:      store,
		engine:     engine,
		budgetRepo: budgetRepo,
	}
}

// CreateWeeklyBudget reserves funds and inserts a weekly budget running
// start_date through start_date+6 days. A failed reservation aborts the
// whole operation; no budget row is left behind.
func (s *BudgetService) CreateWeeklyBudget(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal, startDate time.Time) (*domain.Budget, error) {
	return s.create(ctx, userID, amount, &domain.Budget{
		UserID:    userID,
		Name:      "Weekly Budget",
		Type:      domain.BudgetTypeWeekly,
		StartDate: startDate,
		EndDate:   util.EndOfWeek(startDate),
		IsActive:  true,
	})
}

// CreateMonthlyBudget reserves funds and inserts a monthly budget ending on
// the last calendar day of month_start's month.
func (s *BudgetService) CreateMonthlyBudget(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal, monthStart time.Time) (*domain.Budget, error) {
	return s.create(ctx, userID, amount, &domain.Budget{
		UserID:    userID,
		Name:      "Monthly Budget",
		Type:      domain.BudgetTypeMonthly,
		StartDate: monthStart,
		EndDate:   util.EndOfMonth(monthStart),
		IsActive:  true,
	})
}

// create runs the allocate-then-insert sequence. The reservation happens
// strictly before the insert, inside the same atomic unit.
func (s *BudgetService) create(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal, budget *domain.Budget) (*domain.Budget, error) {
	if amount != nil && amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var created *domain.Budget
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		if err := s.engine.AllocateBudget(ctx, tx, userID, amount); err != nil {
			return err
		}
		budget.Amount = *amount
		var err error
		created, err = tx.InsertBudget(ctx, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateBudget adjusts the allocation by the amount delta and persists the
// new amount, both in one atomic unit. Closed budgets no longer hold a
// reservation, so amount changes on them are rejected.
func (s *BudgetService) UpdateBudget(ctx context.Context, userID uuid.UUID, id int32, newAmount decimal.Decimal) (*domain.Budget, error) {
	if newAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var updated *domain.Budget
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		budget, err := tx.BudgetForUpdate(ctx, userID, id)
		if err != nil {
			return err
		}
		if !budget.IsActive {
			return domain.ErrBudgetClosed
		}
		if err := s.engine.AdjustAllocation(ctx, tx, userID, budget.Amount, newAmount); err != nil {
			return err
		}
		updated, err = tx.UpdateBudgetAmount(ctx, userID, id, newAmount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CloseBudget deactivates a budget. It does not compute or refund unspent
// reserved funds; callers that want the unspent remainder back must work it
// out from the budget's period spend and adjust the allocation themselves
// before closing.
func (s *BudgetService) CloseBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	var closed *domain.Budget
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		var err error
		closed, err = tx.DeactivateBudget(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// GetBudgets retrieves a user's budgets
func (s *BudgetService) GetBudgets(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByUser(ctx, userID, activeOnly)
}

// GetBudgetByID retrieves a single budget
func (s *BudgetService) GetBudgetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, userID, id)
}
