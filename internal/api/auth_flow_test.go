package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/api/handler"
	"github.com/cse-motors/dealership-system/internal/api/middleware"
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
	"github.com/cse-motors/dealership-system/internal/core/service"
	"github.com/cse-motors/dealership-system/pkg/cryptox"
)

// memAccountRepo is an in-memory AccountRepository for flow tests.
type memAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	stored := *account
	stored.ID = fmt.Sprintf("acct-%d", r.nextID)
	r.byEmail[stored.Email] = &stored
	clone := stored
	return &clone, nil
}

func (r *memAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *memAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	for _, account := range r.byEmail {
		if account.ID == id {
			clone := *account
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) UpdateProfile(_ context.Context, id, firstName, lastName, email string) (*domain.Account, error) {
	for key, account := range r.byEmail {
		if account.ID != id {
			continue
		}
		delete(r.byEmail, key)
		account.FirstName = firstName
		account.LastName = lastName
		account.Email = email
		r.byEmail[email] = account
		clone := *account
		return &clone, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, account := range r.byEmail {
		if account.ID == id {
			account.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// memNoticeStore is an in-memory NoticeStore for flow tests.
type memNoticeStore struct {
	bySession map[string][]ports.Notice
}

func (s *memNoticeStore) Push(_ context.Context, sessionID string, notice ports.Notice) error {
	s.bySession[sessionID] = append(s.bySession[sessionID], notice)
	return nil
}

func (s *memNoticeStore) PopAll(_ context.Context, sessionID string) ([]ports.Notice, error) {
	notices := s.bySession[sessionID]
	delete(s.bySession, sessionID)
	return notices, nil
}

// newAuthTestServer wires the real validator, hasher, token service and
// account service behind an Echo instance with the production guard chain.
func newAuthTestServer() *echo.Echo {
	tokens := service.NewTokenService("flow-test-secret", time.Hour)
	notices := &memNoticeStore{bySession: make(map[string][]ports.Notice)}
	accounts := service.NewAccountService(
		&memAccountRepo{byEmail: make(map[string]*domain.Account)},
		service.NewCredentialValidator(),
		cryptox.NewPasswordHasher(4),
		tokens,
		nil,
		zerolog.Nop(),
	)
	h := handler.NewAccountHandler(accounts, notices, "jwt", time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Session(tokens, "jwt"))

	e.GET("/account/login", h.LoginView)
	e.POST("/account/login", h.Login)
	e.POST("/account/register", h.Register)
	e.GET("/account", h.Management, middleware.RequireAccount(notices))

	return e
}

func doJSON(e *echo.Echo, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "jwt" {
			return cookie
		}
	}
	return nil
}

func TestAuthFlow_RegisterLoginGuardedAccess(t *testing.T) {
	e := newAuthTestServer()

	// Anonymous access to the guarded view redirects to login.
	rec := doJSON(e, http.MethodGet, "/account", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("anonymous /account: status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != middleware.LoginPath {
		t.Fatalf("location = %q, want %q", loc, middleware.LoginPath)
	}

	// Register. No session cookie: the user must log in.
	rec = doJSON(e, http.MethodPost, "/account/register",
		`{"first_name":"Ada","last_name":"Lovelace","email":"Ada@Example.com","password":"Str0ng!pass"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("registration must not set a session cookie")
	}

	// Wrong password fails with the generic message.
	rec = doJSON(e, http.MethodPost, "/account/login",
		`{"email":"ada@example.com","password":"Wr0ng!pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d, want 401", rec.Code)
	}
	var errBody struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errBody.Error != "invalid email or password" {
		t.Fatalf("error = %q", errBody.Error)
	}

	// Correct login sets the cookie.
	rec = doJSON(e, http.MethodPost, "/account/login",
		`{"email":"ada@example.com","password":"Str0ng!pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("login must set the session cookie")
	}

	// The cookie unlocks the guarded view.
	rec = doJSON(e, http.MethodGet, "/account", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("authed /account: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view struct {
		Account *domain.Account `json:"account"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Account == nil || view.Account.Email != "ada@example.com" {
		t.Fatalf("view = %s", rec.Body.String())
	}
	if view.Account.Role != domain.RoleClient {
		t.Fatalf("role = %q, want %q", view.Account.Role, domain.RoleClient)
	}

	// A tampered cookie downgrades to anonymous and redirects again.
	tampered := &http.Cookie{Name: "jwt", Value: cookie.Value + "x"}
	rec = doJSON(e, http.MethodGet, "/account", "", tampered)
	if rec.Code != http.StatusFound {
		t.Fatalf("tampered /account: status = %d, want 302", rec.Code)
	}
}

func TestAuthFlow_DuplicateRegistrationIsGeneric(t *testing.T) {
	e := newAuthTestServer()

	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"Str0ng!pass"}`
	if rec := doJSON(e, http.MethodPost, "/account/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}

	rec := doJSON(e, http.MethodPost, "/account/register", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register: status = %d, want 409", rec.Code)
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "email") {
		t.Fatalf("duplicate response mentions the email: %s", rec.Body.String())
	}
}
