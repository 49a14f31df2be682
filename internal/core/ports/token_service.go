package ports

import "github.com/cse-motors/dealership-system/internal/core/domain"

// TokenService issues and verifies signed, time-bound identity tokens. It is
// stateless: Verify is a pure function of (token, secret, current time), so
// it is safe under arbitrary concurrency. There is no server-side revocation;
// a token dies only by expiry or client-side discard.
type TokenService interface {
	// Issue signs a token embedding the account's claims. The password hash
	// is never part of the claims.
	Issue(account *domain.Account) (string, error)

	// Verify parses and validates a token, returning its claims. Fails with
	// domain.ErrTokenExpired, domain.ErrTokenSignature or
	// domain.ErrTokenMalformed.
	Verify(token string) (*domain.Claims, error)
}
