package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPITokenCreate(t *testing.T) {
	svc := NewAPITokenService(testutil.NewMockAPITokenRepository())
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, "ci pipeline")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Token, "fin_"))
	assert.True(t, strings.HasPrefix(created.TokenPrefix, "fin_"))
	assert.True(t, strings.HasSuffix(created.TokenPrefix, "..."))
	assert.NotContains(t, created.TokenPrefix, created.Token)
	assert.Equal(t, "ci pipeline", created.Description)
	assert.NotEmpty(t, created.Warning)
}

func TestAPITokenCreate_LimitEnforced(t *testing.T) {
	svc := NewAPITokenService(testutil.NewMockAPITokenRepository())
	userID := uuid.New()

	for i := 0; i < maxTokensPerUser; i++ {
		_, err := svc.Create(context.Background(), userID, fmt.Sprintf("token %d", i))
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), userID, "one too many")
	assert.ErrorIs(t, err, domain.ErrTooManyAPITokens)
}

func TestAPITokenValidate(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, "test")
	require.NoError(t, err)

	validated, err := svc.ValidateToken(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, validated.UserID)

	// Last-used update runs asynchronously
	assert.Eventually(t, func() bool {
		stored, ok := repo.Tokens[created.ID]
		return ok && stored.LastUsedAt != nil
	}, time.Second, 10*time.Millisecond)
}

func TestAPITokenValidate_Rejections(t *testing.T) {
	svc := NewAPITokenService(testutil.NewMockAPITokenRepository())

	_, err := svc.ValidateToken(context.Background(), "Bearer something")
	assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)

	_, err = svc.ValidateToken(context.Background(), "fin_unknowntoken")
	assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)
}

func TestAPITokenRevoke(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, "short lived")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), userID, created.ID))

	_, err = svc.ValidateToken(context.Background(), created.Token)
	assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)

	tokens, err := svc.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestAPITokenRevoke_OtherUsersToken(t *testing.T) {
	repo := testutil.NewMockAPITokenRepository()
	svc := NewAPITokenService(repo)

	created, err := svc.Create(context.Background(), uuid.New(), "mine")
	require.NoError(t, err)

	err = svc.Revoke(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, domain.ErrAPITokenNotFound)
}
