package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile holds a user's financial state. MoneyOnHand is the single source
// of truth for liquid cash and is written only by the ledger engine through
// a LedgerTx; no repository exposes a balance setter.
type Profile struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	MoneyOnHand   decimal.Decimal `json:"moneyOnHand"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProfileSummary is a profile together with its derived allocation figures.
type ProfileSummary struct {
	Profile             *Profile        `json:"profile"`
	TotalAllocated      decimal.Decimal `json:"totalAllocated"`
	AvailableToAllocate decimal.Decimal `json:"availableToAllocate"`
}

// ProfileRepository defines read-side profile persistence. Balance writes
// deliberately have no home here.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateMonthlyIncome(ctx context.Context, userID uuid.UUID, income decimal.Decimal) (*Profile, error)
}
