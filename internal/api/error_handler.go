package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string             `json:"error"`
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Keeps auth failure messages generic so responses cannot be used to
//     enumerate accounts.
//   - Logs unexpected errors internally without leaking details to the
//     client. Passwords and hashes never appear in any message or log.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Collected validation violations, rendered per field.
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields}
	}

	// Known domain errors → deterministic HTTP codes. The duplicate-email
	// message deliberately does not say the email is taken.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password"}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, errorResponse{Error: "registration failed, please try again"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, errorResponse{Error: "vehicle not found"}
	case errors.Is(err, domain.ErrClassificationNotFound):
		return http.StatusNotFound, errorResponse{Error: "classification not found"}
	case errors.Is(err, domain.ErrDuplicateClassification):
		return http.StatusConflict, errorResponse{Error: "classification already exists"}
	case errors.Is(err, domain.ErrStorage):
		// Technical detail stays server-side.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("storage failure")
		return http.StatusInternalServerError, errorResponse{Error: "something went wrong, please try again"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
