package service

import (
	"context"
	"strings"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsService records savings entries and mirrors each one as a
// "savings" transaction so it participates in the same balance accounting.
type SavingsService struct {
	store       domain.LedgerStore
	txService   *TransactionService
	savingsRepo domain.SavingsRepository
}

// NewSavingsService creates a new SavingsService
func NewSavingsService(store domain.LedgerStore, txService *TransactionService, savingsRepo domain.SavingsRepository) *SavingsService {
	return &SavingsService{
		store:       store,
		txService:   txService,
		savingsRepo: savingsRepo,
	}
}

// CreateSavings inserts a savings row, ensures the user has a "savings"
// category (creating one named "Savings" if absent), and delegates to the
// transaction service for the mirrored transaction that carries the balance
// deduction. All of it commits as one atomic unit. Returns the mirrored
// transaction.
func (s *SavingsService) CreateSavings(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, date time.Time) (*domain.Transaction, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if len(description) > domain.MaxSavingsDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	var mirrored *domain.Transaction
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		if _, err := tx.InsertSavings(ctx, &domain.Savings{
			UserID:      userID,
			Amount:      amount,
			Description: description,
			Date:        date,
		}); err != nil {
			return err
		}

		category, err := tx.GetOrCreateCategory(ctx, userID, domain.CategoryTypeSavings, "Savings")
		if err != nil {
			return err
		}

		title := description
		if title == "" {
			title = "Savings"
		}

		mirrored, err = s.txService.CreateInLedger(ctx, tx, userID, CreateTransactionInput{
			Amount:      amount,
			Type:        domain.TransactionTypeSavings,
			CategoryID:  &category.ID,
			Title:       title,
			Description: description,
			Date:        &date,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mirrored, nil
}

// GetSavings retrieves a user's savings entries
func (s *SavingsService) GetSavings(ctx context.Context, userID uuid.UUID) ([]*domain.Savings, error) {
	return s.savingsRepo.GetAllByUser(ctx, userID)
}
