package qmk

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/qmkwire/pkg/cache"
	"github.com/matzehuels/qmkwire/pkg/errors"
	"github.com/matzehuels/qmkwire/pkg/keyboard"
	"github.com/matzehuels/qmkwire/pkg/observability"
)

const (
	// DefaultBaseURL serves raw files of the qmk_firmware repository.
	DefaultBaseURL = "https://raw.githubusercontent.com/qmk/qmk_firmware"

	// DefaultBranch is the branch documents are read from.
	DefaultBranch = "master"

	// DefaultTTL is how long fetched documents stay cached.
	DefaultTTL = 24 * time.Hour

	httpTimeout    = 10 * time.Second
	cacheNamespace = "qmk"
	maxBodySize    = 4 << 20
)

// Client fetches keyboard documents.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	baseURL string
	branch  string
	ttl     time.Duration
	retries int
	delay   time.Duration
	maxBody int64
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the repository base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithBranch overrides the branch.
func WithBranch(b string) Option { return func(c *Client) { c.branch = b } }

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

// WithCacheTTL sets how long fetched documents stay cached. 0 keeps them forever.
func WithCacheTTL(ttl time.Duration) Option { return func(c *Client) { c.ttl = ttl } }

// WithMaxBodySize limits the size of a fetched document.
func WithMaxBodySize(n int64) Option { return func(c *Client) { c.maxBody = n } }

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.retries, c.delay = attempts, delay }
}

// NewClient returns a client that caches responses in store.
// A nil store disables caching.
func NewClient(store cache.Cache, opts ...Option) *Client {
	if store == nil {
		store = cache.NewNullCache()
	}
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   store,
		baseURL: DefaultBaseURL,
		branch:  DefaultBranch,
		ttl:     DefaultTTL,
		retries: 3,
		delay:   time.Second,
		maxBody: maxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the keyboard.json location of the keyboard at path.
func (c *Client) URL(path string) (string, error) {
	if err := errors.ValidateKeyboardPath(path); err != nil {
		return "", err
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + url.PathEscape(c.branch) + "/keyboards/" + strings.Join(segments, "/") + "/keyboard.json", nil
}

// Fetch returns the parsed document of the keyboard at path. Cached
// documents are used unless refresh is set. cached reports whether the
// document came from the cache.
func (c *Client) Fetch(ctx context.Context, path string, refresh bool) (doc *keyboard.Document, cached bool, err error) {
	u, err := c.URL(path)
	if err != nil {
		return nil, false, err
	}
	key := cache.Key(cacheNamespace, c.branch+"/"+path)

	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if doc, err := keyboard.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheNamespace)
				return doc, true, nil
			}
			_ = c.cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, cacheNamespace)
	}

	var data []byte
	err = cache.Retry(ctx, c.retries, c.delay, func() error {
		data, err = c.get(ctx, u)
		return err
	})
	if err != nil {
		return nil, false, classify(err, u)
	}

	doc, err = keyboard.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", u, err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheNamespace, len(data))
	}
	return doc, false, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, errors.New(errors.ErrCodeInvalidInput, "keyboard.json at %s exceeds %d bytes", u, c.maxBody)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

func classify(err error, u string) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, cache.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "no keyboard.json at %s", u)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", u)
	}
}
