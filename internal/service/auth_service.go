package service

import (
	"context"
	"errors"
	"strings"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login. Session state is carried by
// API tokens; there are no server-side sessions.
type AuthService struct {
	userRepo     domain.UserRepository
	tokenService *APITokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokenService *APITokenService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// RegisterInput holds the input for registering a new user
type RegisterInput struct {
	Username      string
	Email         string
	FirstName     string
	Password      string
	MonthlyIncome decimal.Decimal
	MoneyOnHand   decimal.Decimal
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *domain.User                   `json:"user"`
	Token *domain.CreateAPITokenResponse `json:"token"`
}

// Register creates the user, their profile seeded with the opening balance,
// and the default category set, then issues a first API token. The opening
// balance is set at row creation; every later change goes through the ledger
// engine.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.ErrNameRequired
	}
	if input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if input.MonthlyIncome.IsNegative() || input.MoneyOnHand.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		PasswordHash: string(hash),
	}
	profile := &domain.Profile{
		MonthlyIncome: input.MonthlyIncome,
		MoneyOnHand:   input.MoneyOnHand,
	}

	created, err := s.userRepo.CreateWithProfile(ctx, user, profile, domain.DefaultCategories(user.ID))
	if err != nil {
		return nil, err
	}

	token, err := s.tokenService.Create(ctx, created.ID, "registration")
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", created.ID.String()).Str("username", created.Username).Msg("User registered")

	return &AuthResult{User: created, Token: token}, nil
}

// Login verifies the password and issues a fresh API token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.Create(ctx, user.ID, "login")
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser retrieves a user by username for display purposes.
func (s *AuthService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}
