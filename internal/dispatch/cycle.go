package dispatch

import (
	"context"
	"strconv"
	"time"

	"github.com/quantstream-hq/xueqiu-relay/internal/domain"
	"github.com/quantstream-hq/xueqiu-relay/internal/format"
	"github.com/quantstream-hq/xueqiu-relay/internal/logger"
	"github.com/quantstream-hq/xueqiu-relay/internal/storage"
	"github.com/quantstream-hq/xueqiu-relay/internal/telegram"
)

// Fetcher yields the latest timeline page, newest first.
type Fetcher interface {
	GetNews(ctx context.Context) ([]domain.NewsItem, error)
}

// Cycle is one scheduled fetch, filter, format, send pass. Invocations are
// serialized by the runtime's ticker; no state is shared across cycles beyond
// the optional seen-item store.
type Cycle struct {
	fetcher   Fetcher
	sender    telegram.Sender
	store     storage.Store
	channelID string
	window    time.Duration
	now       func() time.Time
	log       logger.Logger
}

// NewCycle wires a dispatch cycle. The store may be nil to disable duplicate
// suppression; filtering is then purely by recency window.
func NewCycle(fetcher Fetcher, sender telegram.Sender, store storage.Store, channelID string, window time.Duration, log logger.Logger) *Cycle {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Cycle{
		fetcher:   fetcher,
		sender:    sender,
		store:     store,
		channelID: channelID,
		window:    window,
		now:       time.Now,
		log:       log,
	}
}

// RunOnce executes a single dispatch cycle. It never panics and surfaces no
// error: every failure is logged and contained so the schedule keeps ticking.
func (c *Cycle) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.log.ErrorObj("dispatch cycle panicked", "panic", r)
		}
	}()

	items, err := c.fetcher.GetNews(ctx)
	if err != nil {
		c.log.ErrorObj("news fetch failed", "fetch_error", err.Error())
		return
	}
	if len(items) == 0 {
		c.log.InfoObj("no news in window", "window_seconds", int64(c.window.Seconds()))
		return
	}

	nowMs := c.now().UnixMilli()
	windowMs := c.window.Milliseconds()

	// Provider order is newest first; deliver in chronological order.
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]

		if item.CreatedAt+windowMs < nowMs {
			c.log.InfoObj("repeated item skipped", "item_meta", map[string]any{
				"id":         item.ID,
				"created_at": item.CreatedAt,
			})
			continue
		}
		if c.alreadySent(item) {
			continue
		}

		msg := format.ToMarkdown(item)
		if serr := c.sender.SendMarkdown(ctx, c.channelID, msg); serr != nil {
			c.logSendError(item, serr)
			continue
		}
		c.markSent(item)
		c.log.InfoObj("news item delivered", "item_meta", map[string]any{
			"id":         item.ID,
			"created_at": item.CreatedAt,
		})
	}
}

func (c *Cycle) alreadySent(item domain.NewsItem) bool {
	if c.store == nil {
		return false
	}
	seen, err := c.store.SeenItem(itemKey(item))
	if err != nil {
		c.log.WarnObj("seen-item lookup failed", "storage_error", map[string]any{
			"id":    item.ID,
			"error": err.Error(),
		})
		return false
	}
	if seen {
		c.log.InfoObj("item already delivered", "item_meta", map[string]any{"id": item.ID})
	}
	return seen
}

func (c *Cycle) markSent(item domain.NewsItem) {
	if c.store == nil {
		return
	}
	if err := c.store.MarkItem(itemKey(item)); err != nil {
		c.log.WarnObj("seen-item mark failed", "storage_error", map[string]any{
			"id":    item.ID,
			"error": err.Error(),
		})
	}
}

// logSendError matches the tagged variants explicitly; none are retried.
func (c *Cycle) logSendError(item domain.NewsItem, serr *telegram.SendError) {
	fields := map[string]any{
		"id":    item.ID,
		"kind":  serr.Kind.String(),
		"error": serr.Err.Error(),
	}
	switch serr.Kind {
	case telegram.SendUnauthorized:
		c.log.ErrorObj("send rejected: bot unauthorized for channel", "send_error", fields)
	case telegram.SendBadRequest:
		c.log.ErrorObj("send rejected: malformed request", "send_error", fields)
	case telegram.SendTimedOut:
		c.log.ErrorObj("send timed out", "send_error", fields)
	case telegram.SendNetworkError:
		c.log.ErrorObj("send failed: network error", "send_error", fields)
	case telegram.SendChatMigrated:
		fields["migrated_to"] = serr.MigratedTo
		c.log.ErrorObj("send failed: chat migrated", "send_error", fields)
	default:
		c.log.ErrorObj("send failed", "send_error", fields)
	}
}

func itemKey(item domain.NewsItem) string {
	return strconv.FormatInt(item.ID, 10)
}
