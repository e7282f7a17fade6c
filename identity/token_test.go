package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion6/models"
	"fusion6/store"
)

var bob = models.User{ID: "u-1", Name: "Bob", Email: "bob@example.com", Role: models.RoleAdmin}

func TestTokens_IssueAndParse(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens("test-secret", time.Hour, store.New(store.NewMemoryBackend()))

	signed, err := tokens.Issue(bob)
	require.NoError(t, err)

	claims, err := tokens.Parse(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokens_Rejects(t *testing.T) {
	ctx := context.Background()
	revoked := store.New(store.NewMemoryBackend())
	tokens := NewTokens("test-secret", time.Hour, revoked)

	expired := NewTokens("test-secret", time.Hour, revoked)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(bob)
	require.NoError(t, err)

	forged, err := NewTokens("other-secret", time.Hour, revoked).Issue(bob)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      old,
		"wrong secret": forged,
		"alg none":     none,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(ctx, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokens_Revoke(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokens("test-secret", time.Hour, store.New(store.NewMemoryBackend()))

	first, err := tokens.Issue(bob)
	require.NoError(t, err)
	second, err := tokens.Issue(bob)
	require.NoError(t, err)

	tokens.Revoke(ctx, first)
	tokens.Revoke(ctx, "garbage")

	_, err = tokens.Parse(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Parse(ctx, second)
	assert.NoError(t, err)
}
