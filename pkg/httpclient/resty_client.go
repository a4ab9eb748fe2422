package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	c := resty.New()
	c.SetTimeout(timeout)
	return &RestyClient{client: c}
}

// Get performs an HTTP GET request with the specified context, URL, and options.
func (r *RestyClient) Get(ctx context.Context, url string, opts RequestOptions) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}
	if len(opts.Query) > 0 {
		req.SetQueryParams(opts.Query)
	}
	if len(opts.Cookies) > 0 {
		req.SetCookies(opts.Cookies)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte            { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int         { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Cookies() []*http.Cookie { return r.resp.Cookies() }
