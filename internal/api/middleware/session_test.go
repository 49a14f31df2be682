package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
	"github.com/cse-motors/dealership-system/internal/core/service"
)

const testCookieName = "jwt"

// stubNoticeStore records pushed notices in memory.
type stubNoticeStore struct {
	pushed []ports.Notice
}

func (s *stubNoticeStore) Push(_ context.Context, _ string, notice ports.Notice) error {
	s.pushed = append(s.pushed, notice)
	return nil
}

func (s *stubNoticeStore) PopAll(_ context.Context, _ string) ([]ports.Notice, error) {
	notices := s.pushed
	s.pushed = nil
	return notices, nil
}

func newTestContext(t *testing.T, cookieValue string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestSession_AttachesClaimsFromValidCookie(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.Issue(&domain.Account{
		ID:        "acct-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      domain.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := newTestContext(t, token)

	var seen *domain.Claims
	handler := Session(tokens, testCookieName)(func(c echo.Context) error {
		seen = ClaimsFrom(c)
		return okHandler(c)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if seen == nil {
		t.Fatalf("expected claims on the context")
	}
	if seen.AccountID != "acct-1" || seen.Role != domain.RoleEmployee {
		t.Errorf("claims = %+v, want acct-1 / %s", seen, domain.RoleEmployee)
	}
}

func TestSession_MissingCookieIsAnonymous(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	c, rec := newTestContext(t, "")

	handlerRan := false
	handler := Session(tokens, testCookieName)(func(c echo.Context) error {
		handlerRan = true
		if ClaimsFrom(c) != nil {
			t.Errorf("expected anonymous request, got claims")
		}
		return okHandler(c)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if !handlerRan {
		t.Fatalf("downstream handler must run for anonymous requests")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSession_InvalidCookieIsAnonymous(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	// Signed under a different secret, so verification fails.
	foreign, err := service.NewTokenService("other-secret", time.Hour).Issue(&domain.Account{ID: "acct-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, cookieValue := range []string{"garbage", foreign} {
		c, rec := newTestContext(t, cookieValue)

		handler := Session(tokens, testCookieName)(func(c echo.Context) error {
			if ClaimsFrom(c) != nil {
				t.Errorf("cookie %q: expected anonymous request", cookieValue)
			}
			return okHandler(c)
		})
		if err := handler(c); err != nil {
			t.Fatalf("cookie %q: handler: %v", cookieValue, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("cookie %q: status = %d, want 200", cookieValue, rec.Code)
		}
	}
}

func TestRequireAccount_RedirectsAnonymous(t *testing.T) {
	notices := &stubNoticeStore{}
	c, rec := newTestContext(t, "")

	handler := RequireAccount(notices)(func(c echo.Context) error {
		t.Fatalf("guarded handler must not run for anonymous requests")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != LoginPath {
		t.Errorf("location = %q, want %q", loc, LoginPath)
	}
	if len(notices.pushed) != 1 {
		t.Fatalf("expected one queued notice, got %d", len(notices.pushed))
	}
}

func TestRequireAccount_PassesAuthenticated(t *testing.T) {
	c, rec := newTestContext(t, "")
	c.Set(claimsKey, &domain.Claims{AccountID: "acct-1", Role: domain.RoleClient})

	handler := RequireAccount(&stubNoticeStore{})(okHandler)
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_RejectsInsufficientRole(t *testing.T) {
	c, _ := newTestContext(t, "")
	c.Set(claimsKey, &domain.Claims{AccountID: "acct-1", Role: domain.RoleClient})

	handler := RequireRole(domain.RoleEmployee, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("handler must not run for an insufficient role")
		return nil
	})
	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want %v", err, domain.ErrForbidden)
	}
}

func TestRequireRole_RejectsAnonymous(t *testing.T) {
	c, _ := newTestContext(t, "")

	handler := RequireRole(domain.RoleAdmin)(okHandler)
	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want %v", err, domain.ErrForbidden)
	}
}

func TestRequireRole_AllowsListedRoles(t *testing.T) {
	for _, role := range []string{domain.RoleEmployee, domain.RoleAdmin} {
		c, rec := newTestContext(t, "")
		c.Set(claimsKey, &domain.Claims{AccountID: "acct-1", Role: role})

		handler := RequireRole(domain.RoleEmployee, domain.RoleAdmin)(okHandler)
		if err := handler(c); err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, rec.Code)
		}
	}
}
