package service

import (
	"context"
	"testing"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *testutil.MockLedger) {
	store := testutil.NewMockLedger()
	tokenService := NewAPITokenService(testutil.NewMockAPITokenRepository())
	return NewAuthService(testutil.NewMockUserRepository(store), tokenService), store
}

func TestRegister(t *testing.T) {
	svc, store := newAuthFixture()

	result, err := svc.Register(context.Background(), RegisterInput{
		Username:      "alice",
		Email:         "alice@example.com",
		FirstName:     "Alice",
		Password:      "hunter22",
		MonthlyIncome: decimal.RequireFromString("3000.00"),
		MoneyOnHand:   decimal.RequireFromString("150.00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEqual(t, "hunter22", result.User.PasswordHash)
	require.NotNil(t, result.Token)
	assert.NotEmpty(t, result.Token.Token)

	// Profile seeded with the opening balance
	profile := store.Profiles[result.User.ID]
	require.NotNil(t, profile)
	assert.Equal(t, "150.00", profile.MoneyOnHand.StringFixed(2))
	assert.Equal(t, "3000.00", profile.MonthlyIncome.StringFixed(2))

	// Default category set created alongside
	var count int
	for _, c := range store.Categories {
		if c.UserID == result.User.ID {
			count++
		}
	}
	assert.Equal(t, len(domain.DefaultCategories(result.User.ID)), count)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture()
	input := RegisterInput{Username: "bob", Email: "bob@example.com", Password: "pw"}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	input.Email = "bob2@example.com"
	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), RegisterInput{Username: "  ", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "carol", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username:    "carol",
		Password:    "pw",
		MoneyOnHand: decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "dave", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "dave", result.User.Username)
	assert.NotEmpty(t, result.Token.Token)

	_, err = svc.Login(context.Background(), "dave", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown users get the same error as bad passwords
	_, err = svc.Login(context.Background(), "nobody", "correct horse")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
