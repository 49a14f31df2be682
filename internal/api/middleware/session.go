package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/api/flash"
	"github.com/cse-motors/dealership-system/internal/api/metrics"
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// claimsKey is the echo context key holding the verified session claims.
const claimsKey = "session_claims"

// LoginPath is where unauthenticated requests to guarded routes are sent.
const LoginPath = "/account/login"

// Session reads the session token from its HTTP-only cookie and, when it
// verifies, attaches the claims to the request context. This phase fails
// open: a missing, expired or tampered cookie downgrades the request to
// anonymous and never surfaces an error, so public routes keep working with
// a corrupt cookie. It must run before RequireAccount and RequireRole on
// every route.
func Session(tokens ports.TokenService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireAccount short-circuits anonymous requests with a redirect to the
// login page (fail-closed). No downstream handler runs.
func RequireAccount(notices ports.NoticeStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ClaimsFrom(c) != nil {
				return next(c)
			}

			metrics.GuardDenialsTotal.WithLabelValues("authentication").Inc()
			_ = flash.Push(c, notices, "notice", "You must log in to view this page.")
			return c.Redirect(http.StatusFound, LoginPath)
		}
	}
}

// RequireRole rejects authenticated requests whose role is not in
// allowedRoles. Only meaningful after RequireAccount; an anonymous request
// is rejected the same way.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil || !claims.HasRole(allowedRoles...) {
				metrics.GuardDenialsTotal.WithLabelValues("role").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims attached by Session, or nil for an
// anonymous request. The claims value is immutable; handlers read it, never
// mutate it.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
