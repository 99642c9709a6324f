package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetType string

const (
	BudgetTypeWeekly  BudgetType = "weekly"
	BudgetTypeMonthly BudgetType = "monthly"
)

// Valid reports whether t is a known budget type.
func (t BudgetType) Valid() bool {
	return t == BudgetTypeWeekly || t == BudgetTypeMonthly
}

// Budget reserves part of money-on-hand. While active its amount counts
// against available-to-allocate; creation deducts the amount from the
// profile balance in the same atomic unit as the insert.
type Budget struct {
	ID         int32           `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID *int32          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Type       BudgetType      `json:"budgetType"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BudgetRepository is the read side; inserts and amount changes go through
// a LedgerTx.
type BudgetRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*Budget, error)
	ActiveTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}
