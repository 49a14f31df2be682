package ports

import "context"

// Notice is a one-shot message shown to the user after a redirect, then
// discarded ("Registration successful. Please log in.").
type Notice struct {
	Kind    string `json:"kind"` // "notice", "success", "error"
	Message string `json:"message"`
}

// NoticeStore is the explicit flash-message channel threaded through
// handlers and guards. Notices are keyed by an opaque per-browser session id
// and consumed exactly once: PopAll returns pending notices and deletes them
// atomically.
type NoticeStore interface {
	Push(ctx context.Context, sessionID string, notice Notice) error
	PopAll(ctx context.Context, sessionID string) ([]Notice, error)
}
