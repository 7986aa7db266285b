package domain

import (
	"fmt"

	"github.com/puzpuzpuz/xsync"
	"github.com/tixpool-lab/backend/pkg/errorx"
)

// entryGuard is the logical re-entry latch. A call path cannot touch the
// same ticket or balance again before its first invocation completes: the
// second attempt is rejected, not queued.
type entryGuard struct {
	inflight *xsync.MapOf[string, bool]
}

func NewEntryGuard() *entryGuard {
	return &entryGuard{inflight: xsync.NewMapOf[bool]()}
}

func (g *entryGuard) Acquire(keys ...string) error {
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, loaded := g.inflight.LoadOrStore(key, true); loaded {
			for _, a := range acquired {
				g.inflight.Delete(a)
			}

			return errorx.New(errorx.Unavailable, "Another operation on the same object is in progress")
		}

		acquired = append(acquired, key)
	}

	return nil
}

func (g *entryGuard) Release(keys ...string) {
	for _, key := range keys {
		g.inflight.Delete(key)
	}
}

func ticketKey(ticketID int64) string {
	return fmt.Sprintf("ticket/%d", ticketID)
}

func balanceKey(userID string) string {
	return fmt.Sprintf("balance/%s", userID)
}
