package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Account roles. Every account is created as a Client; Employee and Admin are
// assigned out of band, never through self-service paths.
const (
	RoleClient   = "Client"
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrStorage            = errors.New("storage failure")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// Account models a registered user of the dealership site. PasswordHash never
// crosses the transport boundary: it is excluded from JSON and stripped by the
// service before an account is handed to a caller.
type Account struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims is the identity carried inside a session token. It deliberately has
// no password hash field.
type Claims struct {
	AccountID string `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// HasRole reports whether the claims role is one of the given roles.
func (c Claims) HasRole(roles ...string) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// NormalizeEmail applies the canonical email form used for both storage and
// lookups: trimmed and lowercased. Uniqueness is enforced on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FieldErrors carries per-field validation messages. All violations for a
// submission are collected before it is returned, never just the first.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}

// AuthEventKind identifies an entry in the auth audit trail.
type AuthEventKind string

const (
	AuthEventRegistered   AuthEventKind = "registered"
	AuthEventLoginOK      AuthEventKind = "login_ok"
	AuthEventLoginFailed  AuthEventKind = "login_failed"
	AuthEventPasswordSet  AuthEventKind = "password_changed"
	AuthEventProfileSaved AuthEventKind = "profile_updated"
)

// AuthEvent is an audit record of an authentication-related action. Events
// are written asynchronously and never block the request that produced them.
type AuthEvent struct {
	Email     string        `json:"email"`
	Kind      AuthEventKind `json:"kind"`
	RemoteIP  string        `json:"remote_ip,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
