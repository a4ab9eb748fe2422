package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quantstream-hq/xueqiu-relay/pkg/httpclient"
)

// CookieSource supplies the session cookies the timeline endpoint requires.
type CookieSource interface {
	Cookies(ctx context.Context) ([]*http.Cookie, error)
}

// LiveCookieSource obtains a fresh session cookie from the source landing page
// ahead of each timeline request.
type LiveCookieSource struct {
	client httpclient.Client
	src    Source
}

// NewLiveCookieSource builds a cookie source backed by the landing page.
func NewLiveCookieSource(client httpclient.Client, src Source) *LiveCookieSource {
	return &LiveCookieSource{client: client, src: src}
}

func (s *LiveCookieSource) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := s.client.Get(ctx, s.src.LandingURL, httpclient.RequestOptions{Headers: s.src.Headers})
	if err != nil {
		return nil, fmt.Errorf("fetch session cookie from %s: %w", s.src.LandingURL, err)
	}
	return resp.Cookies(), nil
}

// StaticCookieSource serves an operator-supplied cookie header verbatim. The
// credential expires on the provider's schedule and must be rotated by hand.
type StaticCookieSource struct {
	raw string
}

// NewStaticCookieSource wraps a raw "name=value; name2=value2" cookie header.
func NewStaticCookieSource(raw string) *StaticCookieSource {
	return &StaticCookieSource{raw: raw}
}

func (s *StaticCookieSource) Cookies(context.Context) ([]*http.Cookie, error) {
	cookies, err := http.ParseCookie(s.raw)
	if err != nil {
		return nil, fmt.Errorf("parse static cookie: %w", err)
	}
	return cookies, nil
}
