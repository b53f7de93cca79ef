package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/observability"
)

// Client provides shared HTTP functionality for all repository host and
// registry API clients. It handles caching, retry logic, and common request
// headers.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
	backoff cache.Backoff
}

// NewClient creates a Client that stores responses in backend under keys
// starting with prefix for ttl. Headers are applied to all requests made
// through this client. Pass nil for headers if no default headers are needed.
func NewClient(backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   backend,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
		backoff: cache.DefaultBackoff,
	}
}

// SetBackoff replaces the retry policy used by [Client.Cached].
func (c *Client) SetBackoff(b cache.Backoff) { c.backoff = b }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
// Retryable fetch errors are retried with the client's backoff.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.prefix + key
	keyType := c.keyType()
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, keyType)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	if err := c.backoff.Do(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return nil
}

// keyType is the service part of the prefix ("github" for "github:").
func (c *Client) keyType() string {
	name, _, _ := strings.Cut(c.prefix, ":")
	return name
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
// Useful for non-JSON endpoints like go.mod files or plain text responses.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := rateLimit(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// rateLimit recognizes 429 responses and GitHub's 403 with an exhausted
// X-RateLimit-Remaining header. Both are retryable.
func rateLimit(resp *http.Response) error {
	exhausted := resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
	if resp.StatusCode != http.StatusTooManyRequests && !exhausted {
		return nil
	}
	retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	return cache.Retryable(&errors.RateLimitedError{
		RetryAfter: retryAfter,
		Message:    fmt.Sprintf("%s returned status %d", resp.Request.URL.Host, resp.StatusCode),
	})
}
