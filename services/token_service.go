package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type tokenUser struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
}

type tokenClaims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, for issuing and for checking expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService refuses to build a service without a signing key.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errs.ErrSigningKeyMissing
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID uuid.UUID, isAdmin bool) (string, error) {
	issuedAt := s.now()
	claims := tokenClaims{
		User: tokenUser{ID: userID.String(), IsAdmin: isAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Failures are 401 ApiErrs that
// match errs.ErrExpiredToken or errs.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims tokenClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errs.NewExpiredTokenError()
		}
		return Identity{}, errs.NewInvalidTokenError()
	}

	userID, err := uuid.Parse(claims.User.ID)
	if err != nil {
		return Identity{}, errs.NewInvalidTokenError()
	}

	return Identity{UserID: userID, IsAdmin: claims.User.IsAdmin}, nil
}
