package handler

import (
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name"  form:"last_name"`
	Email     string `json:"email"      form:"email"`
	Password  string `json:"password"   form:"password"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type updateProfileRequest struct {
	AccountID string `json:"account_id" form:"account_id"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name"  form:"last_name"`
	Email     string `json:"email"      form:"email"`
}

type changePasswordRequest struct {
	AccountID string `json:"account_id" form:"account_id"`
	Password  string `json:"password"   form:"password"`
}

type registerResponse struct {
	Account  *domain.Account `json:"account"`
	Redirect string          `json:"redirect"`
}

type loginResponse struct {
	Account  *domain.Account `json:"account"`
	Redirect string          `json:"redirect"`
}

type accountViewResponse struct {
	Account *domain.Account `json:"account"`
	Notices []ports.Notice  `json:"notices,omitempty"`
}

type formViewResponse struct {
	Title   string         `json:"title"`
	Notices []ports.Notice `json:"notices,omitempty"`
}

// fieldErrorsResponse re-renders a failed form: all violations plus the
// submitted non-secret fields echoed back. Passwords are never echoed.
type fieldErrorsResponse struct {
	Errors domain.FieldErrors `json:"errors"`
	Fields map[string]string  `json:"fields,omitempty"`
}
