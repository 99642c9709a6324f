package handler

import (
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

// SavingsHandler handles savings-related HTTP requests
type SavingsHandler struct {
	savingsService *service.SavingsService
	publisher      websocket.EventPublisher
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *service.SavingsService, publisher websocket.EventPublisher) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
		publisher:      publisher,
	}
}

// CreateSavingsRequest represents the create savings request body
type CreateSavingsRequest struct {
	Amount      string  `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// CreateSavings godoc
// @Summary Record a savings entry
// @Description Inserts a savings row and its mirrored savings transaction in one atomic unit
// @Tags savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSavingsRequest true "Savings creation request"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Router /savings [post]
func (h *SavingsHandler) CreateSavings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateSavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = parsed
	}

	mirrored, err := h.savingsService.CreateSavings(c.Request().Context(), userID, amount, req.Description, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount must not be negative", nil)
		case errors.Is(err, domain.ErrDescriptionTooLong):
			return NewValidationError(c, "Description is too long", nil)
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create savings")
		return NewInternalError(c, "Failed to create savings")
	}

	h.publisher.Publish(userID, websocket.SavingsCreated(mirrored))

	return c.JSON(http.StatusCreated, mirrored)
}

// GetSavings godoc
// @Summary List savings entries
// @Tags savings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Savings
// @Router /savings [get]
func (h *SavingsHandler) GetSavings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	savings, err := h.savingsService.GetSavings(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list savings")
		return NewInternalError(c, "Failed to list savings")
	}

	return c.JSON(http.StatusOK, savings)
}
