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

func newBudgetHandler(mockLedger *testutil.MockLedger) *BudgetHandler {
	budgetRepo := testutil.NewMockBudgetRepository(mockLedger)
	budgetService := service.NewBudgetService(mockLedger, ledger.NewEngine(), budgetRepo)
	return NewBudgetHandler(budgetService, &websocket.NoOpPublisher{})
}

func TestCreateWeeklyBudget_Success(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})

	body := `{"amount": "120.00", "startDate": "2025-03-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/weekly", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateWeeklyBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if created.Type != domain.BudgetTypeWeekly {
		t.Errorf("Expected weekly budget, got %s", created.Type)
	}
	if !created.Amount.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("Expected amount 120.00, got %s", created.Amount)
	}
	if !created.IsActive {
		t.Error("Expected created budget to be active")
	}

	// Creation reserves the amount from money on hand
	profile := mockLedger.Profiles[userID]
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected balance 380, got %s", profile.MoneyOnHand)
	}
}

func TestCreateBudget_MissingAmount(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/weekly", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateWeeklyBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateBudget_InsufficientFunds(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(50),
	})

	body := `{"amount": "120.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/monthly", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateMonthlyBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}

	// Nothing deducted, nothing created
	profile := mockLedger.Profiles[userID]
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected balance unchanged at 50, got %s", profile.MoneyOnHand)
	}
}

func TestCreateBudget_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler := newBudgetHandler(testutil.NewMockLedger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/weekly", strings.NewReader(`{"amount": "10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateWeeklyBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestUpdateBudget_Closed(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})
	mockLedger.AddBudget(&domain.Budget{
		UserID:   userID,
		Amount:   decimal.NewFromInt(100),
		Type:     domain.BudgetTypeWeekly,
		IsActive: false,
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/1", strings.NewReader(`{"amount": "150.00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setAuthContext(c, userID)

	if err := handler.UpdateBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}
}

func TestCloseBudget_Success(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(300),
	})
	mockLedger.AddBudget(&domain.Budget{
		UserID:   userID,
		Amount:   decimal.NewFromInt(100),
		Type:     domain.BudgetTypeWeekly,
		IsActive: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/1/close", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setAuthContext(c, userID)

	if err := handler.CloseBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var closed domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &closed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if closed.IsActive {
		t.Error("Expected budget to be inactive after close")
	}

	// Closing releases the reservation without refunding the balance
	profile := mockLedger.Profiles[userID]
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected balance unchanged at 300, got %s", profile.MoneyOnHand)
	}
}

func TestGetBudget_NotFound(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newBudgetHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(500),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	setAuthContext(c, userID)

	if err := handler.GetBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
