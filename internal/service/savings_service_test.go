package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/ledger"
	"github.com/financehub/financehub-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavingsFixture(t *testing.T, balance string) (*SavingsService, *testutil.MockLedger, uuid.UUID) {
	t.Helper()
	store := testutil.NewMockLedger()
	userID := uuid.New()
	store.AddProfile(&domain.Profile{
		ID:          1,
		UserID:      userID,
		MoneyOnHand: decimal.RequireFromString(balance),
	})
	txService := NewTransactionService(store, ledger.NewEngine(),
		testutil.NewMockTransactionRepository(store),
		testutil.NewMockCategoryRepository(store))
	svc := NewSavingsService(store, txService, testutil.NewMockSavingsRepository(store))
	return svc, store, userID
}

func TestCreateSavings_MirrorsTransaction(t *testing.T) {
	svc, store, userID := newSavingsFixture(t, "100.00")
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mirrored, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("20.00"), "piggy bank", date)

	require.NoError(t, err)
	require.NotNil(t, mirrored)
	assert.Equal(t, domain.TransactionTypeSavings, mirrored.Type)
	assert.Equal(t, "20.00", mirrored.Amount.StringFixed(2))
	assert.Equal(t, "piggy bank", mirrored.Title)

	// Exactly one savings row, exactly one savings transaction, one deduction
	assert.Len(t, store.SavingsForUser(userID), 1)
	txs := store.TransactionsForUser(userID)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TransactionTypeSavings, txs[0].Type)
	assert.Equal(t, "80.00", store.Profiles[userID].MoneyOnHand.StringFixed(2))
}

func TestCreateSavings_CreatesSavingsCategoryOnce(t *testing.T) {
	svc, store, userID := newSavingsFixture(t, "100.00")

	_, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("10.00"), "", time.Now())
	require.NoError(t, err)
	_, err = svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("10.00"), "", time.Now())
	require.NoError(t, err)

	var savingsCategories int
	for _, c := range store.Categories {
		if c.UserID == userID && c.Type == domain.CategoryTypeSavings {
			savingsCategories++
			assert.Equal(t, "Savings", c.Name)
		}
	}
	assert.Equal(t, 1, savingsCategories)
}

func TestCreateSavings_ReusesExistingSavingsCategory(t *testing.T) {
	svc, store, userID := newSavingsFixture(t, "100.00")
	existing := &domain.Category{
		UserID: userID,
		Name:   "Rainy Day",
		Type:   domain.CategoryTypeSavings,
	}
	store.AddCategory(existing)

	mirrored, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("10.00"), "", time.Now())

	require.NoError(t, err)
	require.NotNil(t, mirrored.CategoryID)
	assert.Equal(t, existing.ID, *mirrored.CategoryID)
}

func TestCreateSavings_RollbackLeavesNothingBehind(t *testing.T) {
	svc, store, userID := newSavingsFixture(t, "100.00")
	store.InsertTransactionErr = errors.New("disk full")

	_, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("20.00"), "piggy bank", time.Now())

	require.Error(t, err)
	assert.Empty(t, store.SavingsForUser(userID))
	assert.Empty(t, store.TransactionsForUser(userID))
	assert.Equal(t, "100.00", store.Profiles[userID].MoneyOnHand.StringFixed(2))
}

func TestCreateSavings_NegativeAmount(t *testing.T) {
	svc, _, userID := newSavingsFixture(t, "100.00")

	_, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("-5.00"), "", time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// Savings can push the balance negative; the ledger does not gate spending,
// only budget allocation.
func TestCreateSavings_AllowsOverdraft(t *testing.T) {
	svc, store, userID := newSavingsFixture(t, "10.00")

	_, err := svc.CreateSavings(context.Background(), userID, decimal.RequireFromString("25.00"), "", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "-15.00", store.Profiles[userID].MoneyOnHand.StringFixed(2))
}
