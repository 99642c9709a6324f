package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/ledger"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/financehub/financehub-backend/internal/testutil"
	"github.com/financehub/financehub-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newProfileHandler(mockLedger *testutil.MockLedger) *ProfileHandler {
	engine := ledger.NewEngine()
	profileRepo := testutil.NewMockProfileRepository(mockLedger)
	budgetRepo := testutil.NewMockBudgetRepository(mockLedger)
	transactionRepo := testutil.NewMockTransactionRepository(mockLedger)
	categoryRepo := testutil.NewMockCategoryRepository(mockLedger)
	transactionService := service.NewTransactionService(mockLedger, engine, transactionRepo, categoryRepo)
	profileService := service.NewProfileService(mockLedger, profileRepo, budgetRepo, transactionService)
	return NewProfileHandler(profileService, &websocket.NoOpPublisher{})
}

func TestGetProfile_Summary(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newProfileHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})
	mockLedger.AddBudget(&domain.Budget{
		UserID:   userID,
		Amount:   decimal.NewFromInt(120),
		Type:     domain.BudgetTypeWeekly,
		IsActive: true,
	})
	mockLedger.AddBudget(&domain.Budget{
		UserID:   userID,
		Amount:   decimal.NewFromInt(999),
		Type:     domain.BudgetTypeMonthly,
		IsActive: false,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary domain.ProfileSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// Only the active budget counts toward the allocation figures
	if !summary.TotalAllocated.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected total allocated 120, got %s", summary.TotalAllocated)
	}
	if !summary.AvailableToAllocate.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected available 380, got %s", summary.AvailableToAllocate)
	}
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler := newProfileHandler(testutil.NewMockLedger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestUpdateIncome_LeavesBalanceUntouched(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newProfileHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})

	body := `{"monthlyIncome": "3500.00"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/income", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.UpdateIncome(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	profile := mockLedger.Profiles[userID]
	if !profile.MonthlyIncome.Equal(decimal.RequireFromString("3500.00")) {
		t.Errorf("Expected income 3500.00, got %s", profile.MonthlyIncome)
	}
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance unchanged at 500, got %s", profile.MoneyOnHand)
	}
}

func TestAddCash_IncreasesBalance(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newProfileHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(60),
	})

	body := `{"amount": "40.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/cash", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.AddCash(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if created.Type != domain.TransactionTypeIncome {
		t.Errorf("Expected income transaction, got %s", created.Type)
	}

	profile := mockLedger.Profiles[userID]
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100, got %s", profile.MoneyOnHand)
	}
}
