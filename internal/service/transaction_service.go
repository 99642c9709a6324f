package service

import (
	"context"
	"strings"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService creates ledger transactions and routes their financial
// effect through the ledger engine.
type TransactionService struct {
	store           domain.LedgerStore
	engine          *ledger.Engine
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(store domain.LedgerStore, engine *ledger.Engine, transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		store:           store,
		engine:          engine,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Amount      decimal.Decimal
	Type        domain.TransactionType
	CategoryID  *int32
	Title       string
	Description string
	Date        *time.Time
}

// CreateTransaction inserts a transaction row and applies its balance effect
// in one atomic unit. Returns the created record.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	// Validate category ownership before opening the unit
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, userID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	var created *domain.Transaction
	err := s.store.Atomic(ctx, func(tx domain.LedgerTx) error {
		var err error
		created, err = s.CreateInLedger(ctx, tx, userID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateInLedger runs the create-and-apply sequence against a caller-supplied
// atomic unit. SavingsService and the cash top-up flow use it so the mirrored
// transaction commits together with their own rows.
func (s *TransactionService) CreateInLedger(ctx context.Context, tx domain.LedgerTx, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = input.Type.Title()
	}
	if len(title) > domain.MaxTransactionTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	created, err := tx.InsertTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Title:       title,
		Description: input.Description,
		Amount:      input.Amount,
		Type:        input.Type,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	if err := s.engine.ApplyTransaction(ctx, tx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetTransactions retrieves transactions for a user with optional filters and pagination
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	return s.transactionRepo.GetByUser(ctx, userID, filters)
}

// GetTransactionByID retrieves a single transaction
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}
