package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Savings records a savings event. Each entry is mirrored by a Transaction
// of type "savings" so the balance conservation invariant holds without
// special-casing savings in the ledger engine.
type Savings struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SavingsRepository is the read side; inserts go through a LedgerTx.
type SavingsRepository interface {
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Savings, error)
}
