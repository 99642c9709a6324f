package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeSavings TransactionType = "savings"
)

// Valid reports whether t is one of the three recognized kinds. Services
// reject anything else at construction time, so unrecognized values never
// reach the ledger.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeSavings:
		return true
	}
	return false
}

// Title returns the capitalized type name, used as the default transaction title.
func (t TransactionType) Title() string {
	switch t {
	case TransactionTypeIncome:
		return "Income"
	case TransactionTypeExpense:
		return "Expense"
	case TransactionTypeSavings:
		return "Savings"
	}
	return string(t)
}

// Transaction is an immutable ledger entry. Amount is always stored positive;
// the sign of its balance effect comes from Type. Every persisted row has had
// its effect applied to the profile exactly once, in the same atomic unit
// that created it.
type Transaction struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  *int32          `json:"categoryId,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	ReceiptKey  *string         `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TransactionFilters struct {
	CategoryID *int32
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// TransactionRepository is the read side; inserts go through a LedgerTx so
// the balance effect and the row commit together.
type TransactionRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	SetReceiptKey(ctx context.Context, userID uuid.UUID, id int32, key *string) (*Transaction, error)
}
