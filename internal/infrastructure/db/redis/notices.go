package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cse-motors/dealership-system/internal/core/ports"
)

// noticeTTL bounds how long an undelivered notice survives. Notices are
// meant to be consumed on the very next page load after a redirect.
const noticeTTL = 10 * time.Minute

// NoticeStore holds one-shot flash notices in Redis, keyed per browser
// session. Key format: notice:<session_id>
type NoticeStore struct {
	client *redis.Client
}

func NewNoticeStore(client *redis.Client) *NoticeStore {
	return &NoticeStore{client: client}
}

// Push appends a notice to the session's pending list and refreshes its TTL.
func (s *NoticeStore) Push(ctx context.Context, sessionID string, notice ports.Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("push notice: %w", err)
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, noticeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

// PopAll returns the session's pending notices and deletes them in the same
// transaction, so each notice is delivered exactly once.
func (s *NoticeStore) PopAll(ctx context.Context, sessionID string) ([]ports.Notice, error) {
	key := s.key(sessionID)

	pipe := s.client.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}

	raw, err := items.Result()
	if err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}

	notices := make([]ports.Notice, 0, len(raw))
	for _, item := range raw {
		var n ports.Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			// skip a corrupt entry instead of failing the page
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

func (s *NoticeStore) key(sessionID string) string {
	return "notice:" + sessionID
}
