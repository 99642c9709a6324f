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

func newSavingsHandler(mockLedger *testutil.MockLedger) *SavingsHandler {
	engine := ledger.NewEngine()
	transactionRepo := testutil.NewMockTransactionRepository(mockLedger)
	categoryRepo := testutil.NewMockCategoryRepository(mockLedger)
	savingsRepo := testutil.NewMockSavingsRepository(mockLedger)
	transactionService := service.NewTransactionService(mockLedger, engine, transactionRepo, categoryRepo)
	savingsService := service.NewSavingsService(mockLedger, transactionService, savingsRepo)
	return NewSavingsHandler(savingsService, &websocket.NoOpPublisher{})
}

func TestCreateSavings_MirrorsTransaction(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newSavingsHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(100),
	})

	body := `{"amount": "25.00", "description": "Emergency fund"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/savings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateSavings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var mirrored domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &mirrored); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if mirrored.Type != domain.TransactionTypeSavings {
		t.Errorf("Expected savings transaction, got %s", mirrored.Type)
	}

	if got := len(mockLedger.SavingsForUser(userID)); got != 1 {
		t.Errorf("Expected 1 savings row, got %d", got)
	}

	profile := mockLedger.Profiles[userID]
	if !profile.MoneyOnHand.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected balance 75, got %s", profile.MoneyOnHand)
	}
}

func TestCreateSavings_InvalidAmount(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newSavingsHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(100),
	})

	body := `{"amount": "-5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/savings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateSavings(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSavings_Empty(t *testing.T) {
	e := echo.New()
	mockLedger := testutil.NewMockLedger()
	handler := newSavingsHandler(mockLedger)

	userID := uuid.New()
	mockLedger.AddProfile(&domain.Profile{
		UserID:      userID,
		MoneyOnHand: decimal.NewFromInt(100),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/savings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.GetSavings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var savings []*domain.Savings
	if err := json.Unmarshal(rec.Body.Bytes(), &savings); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(savings) != 0 {
		t.Errorf("Expected no savings, got %d", len(savings))
	}
}
