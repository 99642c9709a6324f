package handler

import (
	"github.com/financehub/financehub-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles the HTTP handlers wired by RegisterRoutes.
type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Category    *CategoryHandler
	Budget      *BudgetHandler
	Transaction *TransactionHandler
	Receipt     *ReceiptHandler
	Savings     *SavingsHandler
	APIToken    *APITokenHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, tokenAuth *middleware.TokenAuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// All other routes require a valid API token and are rate limited per token
	protected := api.Group("")
	protected.Use(tokenAuth.Authenticate())
	protected.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Profile routes
	profile := protected.Group("/profile")
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("/income", h.Profile.UpdateIncome)
	profile.POST("/cash", h.Profile.AddCash)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategory)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("/weekly", h.Budget.CreateWeeklyBudget)
	budgets.POST("/monthly", h.Budget.CreateMonthlyBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.POST("/:id/close", h.Budget.CloseBudget)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.POST("/:id/receipt", h.Receipt.UploadReceipt)
	transactions.GET("/:id/receipt", h.Receipt.GetReceipt)
	transactions.DELETE("/:id/receipt", h.Receipt.DeleteReceipt)

	// Savings routes
	savings := protected.Group("/savings")
	savings.POST("", h.Savings.CreateSavings)
	savings.GET("", h.Savings.GetSavings)

	// API token routes
	tokens := protected.Group("/tokens")
	tokens.POST("", h.APIToken.CreateAPIToken)
	tokens.GET("", h.APIToken.GetAPITokens)
	tokens.DELETE("/:id", h.APIToken.RevokeAPIToken)

	// WebSocket endpoint authenticates via query parameter, not the bearer middleware
	e.GET("/ws", h.WebSocket.HandleWS)
}
