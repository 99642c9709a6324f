package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/middleware"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/financehub/financehub-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	publisher     websocket.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, publisher websocket.EventPublisher) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		publisher:     publisher,
	}
}

// CreateBudgetRequest represents the create budget request body. Amount is a
// pointer so a missing field is distinguishable from zero.
type CreateBudgetRequest struct {
	Amount    *string `json:"amount"`
	StartDate *string `json:"startDate,omitempty"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Amount string `json:"amount"`
}

// CreateWeeklyBudget godoc
// @Summary Create a weekly budget
// @Description Reserves the amount from money on hand and creates a budget running seven days from the start date
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget creation request"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /budgets/weekly [post]
func (h *BudgetHandler) CreateWeeklyBudget(c echo.Context) error {
	return h.createBudget(c, h.budgetService.CreateWeeklyBudget)
}

// CreateMonthlyBudget godoc
// @Summary Create a monthly budget
// @Description Reserves the amount from money on hand and creates a budget ending on the last day of the month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget creation request"
// @Success 201 {object} domain.Budget
// @Failure 400 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /budgets/monthly [post]
func (h *BudgetHandler) CreateMonthlyBudget(c echo.Context) error {
	return h.createBudget(c, h.budgetService.CreateMonthlyBudget)
}

func (h *BudgetHandler) createBudget(c echo.Context, create func(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal, startDate time.Time) (*domain.Budget, error)) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		amount = &parsed
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		startDate = parsed
	}

	created, err := create(c.Request().Context(), userID, amount, startDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount is required"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount must not be negative", nil)
		case errors.Is(err, domain.ErrInsufficientFunds):
			return NewUnprocessableError(c, "Not enough unallocated funds for this budget")
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	h.publisher.Publish(userID, websocket.BudgetCreated(created))

	return c.JSON(http.StatusCreated, created)
}

// UpdateBudget godoc
// @Summary Update a budget amount
// @Description Adjusts the reservation by the amount delta; closed budgets are rejected
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body UpdateBudgetRequest true "Budget update request"
// @Success 200 {object} domain.Budget
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	updated, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, id, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		case errors.Is(err, domain.ErrBudgetClosed):
			return NewUnprocessableError(c, "Budget is closed; its amount can no longer be changed")
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount must not be negative", nil)
		case errors.Is(err, domain.ErrInsufficientFunds):
			return NewUnprocessableError(c, "Not enough unallocated funds for this increase")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	h.publisher.Publish(userID, websocket.BudgetUpdated(updated))

	return c.JSON(http.StatusOK, updated)
}

// CloseBudget godoc
// @Summary Close a budget
// @Description Deactivates a budget so it stops counting against available funds. Reserved money is not refunded automatically.
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} domain.Budget
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id}/close [post]
func (h *BudgetHandler) CloseBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	closed, err := h.budgetService.CloseBudget(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to close budget")
		return NewInternalError(c, "Failed to close budget")
	}

	h.publisher.Publish(userID, websocket.BudgetClosed(closed))

	return c.JSON(http.StatusOK, closed)
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active budgets"
// @Success 200 {array} domain.Budget
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	activeOnly := c.QueryParam("active") == "true"

	budgets, err := h.budgetService.GetBudgets(c.Request().Context(), userID, activeOnly)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	return c.JSON(http.StatusOK, budgets)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} domain.Budget
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, budget)
}
