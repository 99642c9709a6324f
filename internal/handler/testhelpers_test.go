package handler

import (
	"context"

	"github.com/financehub/financehub-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// setAuthContext simulates the token auth middleware by placing the user ID
// on the request context.
func setAuthContext(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.APITokenIDKey, uuid.New())
	c.SetRequest(c.Request().WithContext(ctx))
}
