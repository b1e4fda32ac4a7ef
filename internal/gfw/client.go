// Package gfw is a client for the Global Fishing Watch v3 API: vessel
// identity search and time-windowed activity events (fishing, port
// visits, AIS gaps, encounters) with paging and rate-limit aware retry.
package gfw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://gateway.api.globalfishingwatch.org/v3"

	defaultPageSize    = 100
	defaultMaxRetries  = 3
	defaultRetryDelay  = 2 * time.Second
	defaultHTTPTimeout = 30 * time.Second

	identityDataset = "public-global-vessel-identity:latest"
)

// Config carries everything the client needs at construction time.
// The client holds no mutable session state after New.
type Config struct {
	BaseURL    string
	Token      string
	PageSize   int
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	pageSize   int
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

func New(cfg Config) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.pageSize < 1 {
		c.pageSize = defaultPageSize
	}
	if c.maxRetries < 1 {
		c.maxRetries = defaultMaxRetries
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c
}

// getJSON performs one GET with bounded retries. A 429 backs off
// exponentially (delay doubled per attempt); other transient failures
// wait the base delay. Permanent failures return immediately.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		apiURL := c.baseURL + path
		if len(query) > 0 {
			apiURL += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("fetching %s: %w", path, err)
			log.Printf("gfw request error (attempt %d/%d): %v", attempt+1, c.maxRetries, err)
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response: %w", err)
			if err := sleepCtx(ctx, c.retryDelay); err != nil {
				return err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		default:
			se := &StatusError{Status: resp.StatusCode, Body: truncate(string(body), 200)}
			if !se.Transient() {
				return se
			}
			lastErr = se
			wait := c.retryDelay
			if resp.StatusCode == http.StatusTooManyRequests {
				wait = c.retryDelay * (1 << attempt)
				log.Printf("gfw rate limited, waiting %s before retry", wait)
			} else {
				log.Printf("gfw error HTTP %d for %s (attempt %d/%d)", resp.StatusCode, path, attempt+1, c.maxRetries)
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", c.maxRetries, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
