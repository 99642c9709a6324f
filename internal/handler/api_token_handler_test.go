package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/financehub/financehub-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestCreateAPIToken_Success(t *testing.T) {
	e := echo.New()
	tokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	handler := NewAPITokenHandler(tokenService)

	userID := uuid.New()
	body := `{"description": "CI pipeline"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateAPIToken(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.CreateAPITokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !strings.HasPrefix(response.Token, "fin_") {
		t.Errorf("Expected token with fin_ prefix, got %q", response.Token)
	}
	if response.Description != "CI pipeline" {
		t.Errorf("Expected description 'CI pipeline', got %q", response.Description)
	}
}

func TestCreateAPIToken_MissingDescription(t *testing.T) {
	e := echo.New()
	tokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	handler := NewAPITokenHandler(tokenService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, uuid.New())

	if err := handler.CreateAPIToken(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateAPIToken_LimitReached(t *testing.T) {
	e := echo.New()
	tokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	handler := NewAPITokenHandler(tokenService)

	userID := uuid.New()
	for i := 0; i < 10; i++ {
		body := fmt.Sprintf(`{"description": "token %d"}`, i)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setAuthContext(c, userID)
		if err := handler.CreateAPIToken(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201 on token %d, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", strings.NewReader(`{"description": "one too many"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setAuthContext(c, userID)

	if err := handler.CreateAPIToken(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRevokeAPIToken_Success(t *testing.T) {
	e := echo.New()
	tokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	handler := NewAPITokenHandler(tokenService)

	userID := uuid.New()
	created, err := tokenService.Create(context.Background(), userID, "to revoke")
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tokens/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	setAuthContext(c, userID)

	if err := handler.RevokeAPIToken(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestRevokeAPIToken_NotFound(t *testing.T) {
	e := echo.New()
	tokenService := service.NewAPITokenService(testutil.NewMockAPITokenRepository())
	handler := NewAPITokenHandler(tokenService)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tokens/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setAuthContext(c, uuid.New())

	if err := handler.RevokeAPIToken(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
