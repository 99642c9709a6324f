package handler

import (
	"errors"
	"net/http"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	Password      string `json:"password"`
	MonthlyIncome string `json:"monthlyIncome,omitempty"`
	MoneyOnHand   string `json:"moneyOnHand,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new user
// @Description Create a user with a seeded profile and default categories, returning a first API token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, err := parseOptionalAmount(req.MonthlyIncome)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "monthlyIncome", Message: "Must be a valid decimal number"},
		})
	}
	balance, err := parseOptionalAmount(req.MoneyOnHand)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "moneyOnHand", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		Password:      req.Password,
		MonthlyIncome: income,
		MoneyOnHand:   balance,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return NewConflictError(c, "Username is already taken")
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Username is required", nil)
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewValidationError(c, "Password is required", nil)
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amounts must not be negative", nil)
		}
		log.Error().Err(err).Msg("Registration failed")
		return NewInternalError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, result)
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and issue a fresh API token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid username or password")
		}
		log.Error().Err(err).Msg("Login failed")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, result)
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
