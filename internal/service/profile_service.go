package service

import (
	"context"
	"strings"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileService exposes a user's financial profile and the cash top-up flow.
type ProfileService struct {
	store       domain.LedgerStore
	profileRepo domain.ProfileRepository
	budgetRepo  domain.BudgetRepository
	txService   *TransactionService
}

// NewProfileService creates a new ProfileService
func NewProfileService(store domain.LedgerStore, profileRepo domain.ProfileRepository, budgetRepo domain.BudgetRepository, txService *TransactionService) *ProfileService {
	return &ProfileService{
		store:       store,
		profileRepo: profileRepo,
		budgetRepo:  budgetRepo,
		txService:   txService,
	}
}

// GetProfile returns the profile with its derived allocation figures.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.ProfileSummary, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	allocated, err := s.budgetRepo.ActiveTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.ProfileSummary{
		Profile:             profile,
		TotalAllocated:      allocated,
		AvailableToAllocate: profile.MoneyOnHand.Sub(allocated),
	}, nil
}

// UpdateMonthlyIncome updates the informational monthly income figure. It
// never touches money_on_hand.
func (s *ProfileService) UpdateMonthlyIncome(ctx context.Context, userID uuid.UUID, income decimal.Decimal) (*domain.Profile, error) {
	if income.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	return s.profileRepo.UpdateMonthlyIncome(ctx, userID, income)
}

// AddCash records a cash top-up as an income transaction against the "Other"
// category, so the balance change flows through the ledger engine like any
// other income.
func (s *ProfileService) AddCash(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	title := strings.TrimSpace(description)
	if title == "" {
		title = "Cash top-up"
	}

	var created *domain.Transaction
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		category, err := tx.GetOrCreateCategory(ctx, userID, domain.CategoryTypeOther, "Other")
		if err != nil {
			return err
		}
		now := time.Now().UTC().Truncate(24 * time.Hour)
		created, err = s.txService.CreateInLedger(ctx, tx, userID, CreateTransactionInput{
			Amount:      amount,
			Type:        domain.TransactionTypeIncome,
			CategoryID:  &category.ID,
			Title:       title,
			Description: description,
			Date:        &now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
