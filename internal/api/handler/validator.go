package handler

import (
	"github.com/cse-motors/dealership-system/internal/core/service"
)

// echoValidator adapts the credential validator so Echo can call
// c.Validate(req) on any tagged request struct. Violations come back as
// domain.FieldErrors, which the error handler renders per-field.
type echoValidator struct {
	cv *service.CredentialValidator
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator.
func NewValidator(cv *service.CredentialValidator) *echoValidator {
	return &echoValidator{cv: cv}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return ev.cv.ValidateStruct(i)
}
