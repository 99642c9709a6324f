package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		publisher:          publisher,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	CategoryID  *int32  `json:"categoryId,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create an income, expense, or savings transaction; its balance effect is applied atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	created, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, service.CreateTransactionInput{
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransactionType):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense, savings"},
			})
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount must not be negative", nil)
		case errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, "Title is too long", nil)
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category does not exist"},
			})
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	h.publisher.Publish(userID, websocket.TransactionCreated(created))

	return c.JSON(http.StatusCreated, created)
}

// GetTransactions godoc
// @Summary List transactions
// @Description Returns a filtered, paginated list of the user's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type filter"
// @Param categoryId query int false "Category filter"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} domain.PaginatedTransactions
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	page, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, page)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{}

	if v := c.QueryParam("type"); v != "" {
		t := domain.TransactionType(v)
		if !t.Valid() {
			return nil, errors.New("invalid type filter")
		}
		filters.Type = &t
	}
	if v := c.QueryParam("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errors.New("invalid categoryId filter")
		}
		cid := int32(id)
		filters.CategoryID = &cid
	}
	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("invalid startDate filter")
		}
		filters.StartDate = &parsed
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("invalid endDate filter")
		}
		filters.EndDate = &parsed
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return nil, errors.New("invalid page")
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		size, err := strconv.ParseInt(v, 10, 32)
		if err != nil || size < 1 || size > domain.MaxPageSize {
			return nil, errors.New("invalid pageSize")
		}
		filters.PageSize = int32(size)
	}

	return filters, nil
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}
