package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/api/middleware"
	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// currentClaims extracts the verified session claims attached by the Session
// middleware. Guarded routes always have them; a nil value means the guard
// chain was misconfigured, so fail closed with 401.
func currentClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// mustOwnOrAdmin allows an operation on accountID only for that account's
// owner or an admin.
func mustOwnOrAdmin(claims *domain.Claims, accountID string) error {
	if claims.AccountID == accountID || claims.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}
