package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authenticate-me/internal/model"
)

// sessionClaims carries the safe user view as the token's only payload.
type sessionClaims struct {
	Data model.SafeUser `json:"data"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with a server-held secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(user model.SafeUser) (string, error) {
	return t.IssueWithTTL(user, t.ttl)
}

func (t *TokenIssuer) IssueWithTTL(user model.SafeUser, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := sessionClaims{
		Data: user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the embedded user, or model.ErrInvalidToken for any
// malformed, tampered or expired token.
func (t *TokenIssuer) Verify(tokenString string) (model.SafeUser, error) {
	if tokenString == "" {
		return model.SafeUser{}, model.ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid || claims.Data.ID == "" {
		return model.SafeUser{}, model.ErrInvalidToken
	}

	return claims.Data, nil
}
