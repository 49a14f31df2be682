package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// CredentialValidator performs the syntactic and strength checks on raw form
// input before any hashing or storage work. Every violation in a submission
// is collected into domain.FieldErrors; it never stops at the first.
type CredentialValidator struct {
	v *validator.Validate
}

// NewCredentialValidator builds a validator with the custom strongpassword
// rule registered.
func NewCredentialValidator() *CredentialValidator {
	v := validator.New()
	// never errors for a non-nil func
	_ = v.RegisterValidation("strongpassword", validStrongPassword)
	return &CredentialValidator{v: v}
}

// ValidateRegistration checks a registration submission.
func (cv *CredentialValidator) ValidateRegistration(input ports.RegisterInput) error {
	return cv.check(input)
}

// ValidateLogin checks a login submission. Password strength is not
// re-applied: only syntax of the email and presence of the password.
func (cv *CredentialValidator) ValidateLogin(input ports.LoginInput) error {
	return cv.check(input)
}

// ValidateProfileUpdate checks a profile update (names and email only).
func (cv *CredentialValidator) ValidateProfileUpdate(input ports.UpdateProfileInput) error {
	return cv.check(input)
}

// ValidatePasswordChange checks a password change against the registration
// strength rule.
func (cv *CredentialValidator) ValidatePasswordChange(input ports.ChangePasswordInput) error {
	return cv.check(input)
}

// ValidateStruct applies the validate tags of any tagged input and collects
// all violations. Used by the inventory layer for its form inputs.
func (cv *CredentialValidator) ValidateStruct(input any) error {
	return cv.check(input)
}

func (cv *CredentialValidator) check(input any) error {
	err := cv.v.Struct(input)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(domain.FieldErrors, len(ve))
	for _, fe := range ve {
		fields[snakeCase(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

// validStrongPassword enforces the registration password policy: at least
// six characters with one uppercase letter, one lowercase letter, one digit
// and one symbol.
func validStrongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 6 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// fieldMessage converts a single validation error into the message echoed
// back next to the offending form field.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(snakeCase(fe.Field()), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("please provide a %s", field)
	case "email":
		return "a valid email is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "strongpassword":
		return "password must be at least 6 characters and include uppercase, lowercase, number, and symbol"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers", field)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// snakeCase converts a struct field name ("FirstName") to its form-field
// name ("first_name").
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// no separator inside acronyms ("ID")
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
