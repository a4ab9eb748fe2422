package feed

import (
	"context"
	"net/http"
	"testing"
)

func TestLiveCookieSourceFetchesLandingPage(t *testing.T) {
	client := &mockHTTPClient{
		status:  http.StatusOK,
		body:    "<html></html>",
		cookies: []*http.Cookie{{Name: "xq_a_token", Value: "fresh"}},
	}
	src := DefaultSource()

	cookies, err := NewLiveCookieSource(client, src).Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if client.gotURL != src.LandingURL {
		t.Errorf("requested %q, want landing url %q", client.gotURL, src.LandingURL)
	}
	if len(cookies) != 1 || cookies[0].Value != "fresh" {
		t.Fatalf("expected landing cookie, got %v", cookies)
	}
}

func TestStaticCookieSourceParsesHeader(t *testing.T) {
	src := NewStaticCookieSource("xq_a_token=abc; u=12345")

	cookies, err := src.Cookies(context.Background())
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Name != "xq_a_token" || cookies[0].Value != "abc" {
		t.Errorf("first cookie = %+v", cookies[0])
	}
	if cookies[1].Name != "u" || cookies[1].Value != "12345" {
		t.Errorf("second cookie = %+v", cookies[1])
	}
}

func TestStaticCookieSourceRejectsMalformedHeader(t *testing.T) {
	src := NewStaticCookieSource("xq_a_token=abc; malformed")

	if _, err := src.Cookies(context.Background()); err == nil {
		t.Fatal("expected parse error for a pair without '='")
	}
}
