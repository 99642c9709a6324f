package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAmountRequired         = errors.New("amount is required")
	ErrInvalidAmount          = errors.New("amount must be a non-negative decimal")
	ErrInsufficientFunds      = errors.New("insufficient available funds to allocate budget")
	ErrInvalidTransactionType = errors.New("transaction type must be one of: income, expense, savings")
	ErrInvalidBudgetType      = errors.New("budget type must be one of: weekly, monthly")
	ErrInvalidCategoryType    = errors.New("unknown category type")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrBudgetClosed           = errors.New("budget is closed")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryExists         = errors.New("category already exists")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrEmailTaken             = errors.New("email is already registered")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrAPITokenNotFound       = errors.New("api token not found")
	ErrTooManyAPITokens       = errors.New("maximum number of active api tokens reached")
	ErrTitleTooLong           = errors.New("title exceeds maximum length")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxTransactionTitleLength   = 200
	MaxCategoryNameLength       = 100
	MaxBudgetNameLength         = 150
	MaxSavingsDescriptionLength = 255
)
