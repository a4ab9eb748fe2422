package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quantstream-hq/xueqiu-relay/internal/domain"
	"github.com/quantstream-hq/xueqiu-relay/internal/logger"
	"github.com/quantstream-hq/xueqiu-relay/pkg/httpclient"
)

// Client fetches and decodes the live-news timeline.
type Client struct {
	http    httpclient.Client
	cookies CookieSource
	src     Source
	log     logger.Logger
}

// NewClient builds a timeline client. Nil collaborators fall back to defaults.
func NewClient(httpClient httpclient.Client, cookies CookieSource, src Source, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewRestyClient(15 * time.Second)
	}
	if cookies == nil {
		cookies = NewLiveCookieSource(httpClient, src)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Client{
		http:    httpClient,
		cookies: cookies,
		src:     src,
		log:     log,
	}
}

// timelineEnvelope mirrors the provider response. Each entry's payload is a
// JSON document encoded as a string, so decoding takes two passes.
type timelineEnvelope struct {
	List []timelineEntry `json:"list"`
}

type timelineEntry struct {
	Data string `json:"data"`
}

type newsPayload struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Mark      int    `json:"mark"`
	Target    string `json:"target"`
	CreatedAt int64  `json:"created_at"`
}

// GetNews performs one timeline request and returns decoded items in provider
// order (newest first). A non-2xx status is a soft failure: it is logged and an
// empty slice is returned with a nil error. Transport faults and a malformed
// envelope propagate to the caller.
func (c *Client) GetNews(ctx context.Context) ([]domain.NewsItem, error) {
	cookies, err := c.cookies.Cookies(ctx)
	if err != nil {
		return nil, err
	}

	opts := httpclient.RequestOptions{
		Headers: c.src.Headers,
		Query: map[string]string{
			// No incremental cursor: every call re-fetches the latest page.
			"since_id": "-1",
			"max_id":   "-1",
			"count":    strconv.Itoa(c.src.Count),
			"category": strconv.Itoa(c.src.Category),
		},
		Cookies: cookies,
	}

	resp, err := c.http.Get(ctx, c.src.TimelineURL, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch %s timeline: %w", c.src.ID, err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.log.WarnObj("timeline fetch failed", "fetch_error", map[string]any{
			"source_id": c.src.ID,
			"status":    resp.StatusCode(),
			"body":      responseSnippet(resp.Body()),
		})
		return []domain.NewsItem{}, nil
	}

	var env timelineEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode %s timeline envelope: %w", c.src.ID, err)
	}

	items := make([]domain.NewsItem, 0, len(env.List))
	for i, entry := range env.List {
		var payload newsPayload
		if err := json.Unmarshal([]byte(entry.Data), &payload); err != nil {
			c.log.WarnObj("timeline entry skipped", "entry_error", map[string]any{
				"source_id": c.src.ID,
				"index":     i,
				"error":     err.Error(),
			})
			continue
		}
		items = append(items, domain.NewsItem{
			ID:        payload.ID,
			Text:      payload.Text,
			Mark:      payload.Mark,
			Target:    payload.Target,
			CreatedAt: payload.CreatedAt,
		})
	}
	return items, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
