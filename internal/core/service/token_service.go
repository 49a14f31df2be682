package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// sessionClaims is the JWT payload for a session token. The password hash is
// never part of it.
type sessionClaims struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. It holds no state
// beyond the signing secret, so Verify is safe under arbitrary concurrency.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. The secret is
// loaded once at startup and never exposed outward. A non-positive ttl falls
// back to one hour.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime. Cookie max-age is aligned to it.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying the account's identity claims, expiring after
// the configured TTL.
func (s *TokenService) Issue(account *domain.Account) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates token, returning its claims. Failures map to
// the domain taxonomy: expiry, bad signature, or anything else malformed.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Claims{
		AccountID: claims.Subject,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}
