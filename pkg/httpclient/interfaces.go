package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Cookies() []*http.Cookie
}

// RequestOptions carries the per-request headers, query parameters, and cookies.
type RequestOptions struct {
	Headers map[string]string
	Query   map[string]string
	Cookies []*http.Cookie
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, opts RequestOptions) (Response, error)
}
