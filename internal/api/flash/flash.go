// Package flash threads one-shot notices across redirects. It is an explicit
// value channel: handlers and guards push through a NoticeStore handed to
// them, never through ambient globals. Notices are keyed by an opaque
// notice_id cookie separate from the session token.
package flash

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cse-motors/dealership-system/internal/core/ports"
)

const (
	cookieName   = "notice_id"
	cookieMaxAge = int(30 * time.Minute / time.Second)
)

// Push queues a notice for the requesting browser, creating the notice
// cookie when absent. Best-effort: a store failure loses the notice, never
// the request.
func Push(c echo.Context, store ports.NoticeStore, kind, message string) error {
	if store == nil {
		return nil
	}
	return store.Push(c.Request().Context(), sessionID(c, true), ports.Notice{Kind: kind, Message: message})
}

// Pop returns and clears the pending notices for the requesting browser.
// Without a notice cookie there is nothing pending and no cookie is created.
func Pop(c echo.Context, store ports.NoticeStore) []ports.Notice {
	if store == nil {
		return nil
	}
	id := sessionID(c, false)
	if id == "" {
		return nil
	}
	notices, err := store.PopAll(c.Request().Context(), id)
	if err != nil {
		return nil
	}
	return notices
}

// sessionID returns the browser's notice session id, minting one (and
// setting the cookie) when create is true.
func sessionID(c echo.Context, create bool) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if !create {
		return ""
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
