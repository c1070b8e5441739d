package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

// maxBodyBytes caps how much of a page is read into memory.
const maxBodyBytes = 5 << 20

// Client fetches raw HTML with a browser-like user agent, enforcing a
// minimum delay between requests so runs stay polite to target sites.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

var _ ports.PageFetcher = (*Client)(nil)

// NewClient builds a page fetcher from fetch configuration.
func NewClient(cfg config.FetchConfig) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout()},
		limiter:   rate.NewLimiter(rate.Every(cfg.RequestDelay()), 1),
		userAgent: cfg.UserAgent,
	}
}

// WithDelay replaces the politeness interval between requests.
func (c *Client) WithDelay(d time.Duration) *Client {
	c.limiter = rate.NewLimiter(rate.Every(d), 1)
	return c
}

// FetchPage retrieves the URL and returns its body as a string. Transport
// errors, non-2xx statuses and empty bodies come back as fetch errors.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) == 0 {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("empty response body")}
	}

	return string(body), nil
}
