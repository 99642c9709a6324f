package handler

import (
	"errors"
	"net/http"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/middleware"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/financehub/financehub-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
	publisher      websocket.EventPublisher
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, publisher websocket.EventPublisher) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		publisher:      publisher,
	}
}

// UpdateIncomeRequest represents the monthly income update request body
type UpdateIncomeRequest struct {
	MonthlyIncome string `json:"monthlyIncome"`
}

// AddCashRequest represents the cash top-up request body
type AddCashRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// GetProfile godoc
// @Summary Get the financial profile
// @Description Returns the profile with total allocated and available-to-allocate figures
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ProfileSummary
// @Failure 401 {object} ProblemDetails
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.profileService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, summary)
}

// UpdateIncome godoc
// @Summary Update monthly income
// @Description Updates the informational monthly income figure; the balance is untouched
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateIncomeRequest true "Income update request"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ProblemDetails
// @Router /profile/income [put]
func (h *ProfileHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, err := decimal.NewFromString(req.MonthlyIncome)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "monthlyIncome", Message: "Must be a valid decimal number"},
		})
	}

	profile, err := h.profileService.UpdateMonthlyIncome(c.Request().Context(), userID, income)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Monthly income must not be negative", nil)
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update income")
		return NewInternalError(c, "Failed to update income")
	}

	return c.JSON(http.StatusOK, profile)
}

// AddCash godoc
// @Summary Add cash on hand
// @Description Records a cash top-up as an income transaction
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddCashRequest true "Cash top-up request"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Router /profile/cash [post]
func (h *ProfileHandler) AddCash(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AddCashRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	created, err := h.profileService.AddCash(c.Request().Context(), userID, amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount must not be negative", nil)
		case errors.Is(err, domain.ErrProfileNotFound):
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to add cash")
		return NewInternalError(c, "Failed to add cash")
	}

	h.publisher.Publish(userID, websocket.TransactionCreated(created))

	return c.JSON(http.StatusCreated, created)
}
