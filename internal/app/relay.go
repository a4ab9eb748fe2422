package app

import (
	"context"
	"fmt"
	"time"

	"github.com/quantstream-hq/xueqiu-relay/internal/config"
	"github.com/quantstream-hq/xueqiu-relay/internal/dispatch"
	"github.com/quantstream-hq/xueqiu-relay/internal/logger"
	"github.com/quantstream-hq/xueqiu-relay/internal/storage"
	"github.com/quantstream-hq/xueqiu-relay/internal/telegram"
	"github.com/quantstream-hq/xueqiu-relay/pkg/feed"
	"github.com/quantstream-hq/xueqiu-relay/pkg/httpclient"
)

// Relay represents the relay runtime. It wires the feed client, dispatch
// cycle, seen-item store, and bot shell, and drives the poll schedule.
type Relay struct {
	cfg      *config.Config
	bot      *telegram.Bot
	cycle    *dispatch.Cycle
	interval time.Duration
	store    storage.Store
	log      logger.Logger
}

// NewRelay builds a relay runtime from config.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	src := feed.DefaultSource()
	if cfg.FeedsFile != "" {
		loaded, err := feed.LoadSource(cfg.FeedsFile)
		if err != nil {
			return nil, fmt.Errorf("load feed source: %w", err)
		}
		src = loaded
	}
	log.InfoObj("feed source configured", "source_meta", map[string]any{
		"id":           src.ID,
		"timeline_url": src.TimelineURL,
		"category":     src.Category,
		"count":        src.Count,
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)

	var cookieSrc feed.CookieSource
	switch cfg.CookieMode {
	case config.CookieModeStatic:
		cookieSrc = feed.NewStaticCookieSource(cfg.StaticCookie)
	default:
		cookieSrc = feed.NewLiveCookieSource(httpClient, src)
	}

	fetcher := feed.NewClient(httpClient, cookieSrc, src, log)

	bot, err := telegram.New(cfg.BotToken, log)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	storeOpts := storage.Options{
		ItemTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	cycle := dispatch.NewCycle(fetcher, bot.Sender(), store, cfg.ChannelID, cfg.PollInterval, log)

	return &Relay{
		cfg:      cfg,
		bot:      bot,
		cycle:    cycle,
		interval: cfg.PollInterval,
		store:    store,
		log:      log,
	}, nil
}

// Run starts the bot polling loop and the dispatch schedule until the context
// is cancelled. The first cycle runs immediately.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.cycle == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closeStore()

	go r.bot.Start(ctx)

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"channel_id":    r.cfg.ChannelID,
		"poll_interval": r.interval.String(),
		"cookie_mode":   r.cfg.CookieMode,
	})

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce performs a single dispatch cycle with timing around it.
func (r *Relay) runOnce(ctx context.Context) {
	start := time.Now()
	r.log.InfoObj("dispatch cycle started", "cycle_meta", map[string]any{
		"started_at": start.UTC(),
	})
	r.cycle.RunOnce(ctx)
	r.log.InfoObj("dispatch cycle completed", "cycle_meta", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (r *Relay) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
