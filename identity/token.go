package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"fusion6/models"
	"fusion6/store"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and checks bearer tokens. Revoked token ids are kept in
// the store until the token would have expired anyway.
type Tokens struct {
	secret  []byte
	ttl     time.Duration
	revoked *store.Store
	now     func() time.Time
}

func NewTokens(secret string, ttl time.Duration, revoked *store.Store) *Tokens {
	return &Tokens{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

func (t *Tokens) Issue(user models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if t.revoked.Has(ctx, claims.ID) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blacklists a token until its expiry. Invalid tokens are ignored.
func (t *Tokens) Revoke(ctx context.Context, tokenString string) {
	claims, err := t.Parse(ctx, tokenString)
	if err != nil {
		return
	}

	ttl := claims.ExpiresAt.Time.Sub(t.now())
	if ttl <= 0 {
		return
	}
	t.revoked.SaveFor(ctx, claims.ID, true, ttl)
}
