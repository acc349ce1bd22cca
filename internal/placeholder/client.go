package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/five82/postboard/internal/records"
)

// Gateway is the remote record store consumed by the session.
// It is implemented by *Client and can be faked in tests.
type Gateway interface {
	List(ctx context.Context) ([]records.Record, error)
	Get(ctx context.Context, id int64) (records.Record, error)
	Create(ctx context.Context, draft records.Draft) (records.Record, error)
	Replace(ctx context.Context, id int64, full records.Record) (records.Record, error)
	Remove(ctx context.Context, id int64) error
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to a JSONPlaceholder-style /posts API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

const (
	DefaultBaseURL        = "https://jsonplaceholder.typicode.com"
	defaultUserAgent      = "postboard/0.1"
	defaultRequestTimeout = 10 * time.Second
	postsPath             = "posts"
)

// Options tune a Client. The zero value is usable.
type Options struct {
	Timeout   time.Duration // per request; zero uses the default
	RateLimit float64       // requests per second; zero disables limiting
	UserAgent string
	Logger    *zap.Logger
	HTTP      *http.Client // overrides Timeout when set
}

// NewClient builds a Client rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		logger:    logger.Named("placeholder"),
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List retrieves every post.
func (c *Client) List(ctx context.Context) ([]records.Record, error) {
	var payload []records.Record
	if err := c.do(ctx, http.MethodGet, postsPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Get retrieves a single post.
func (c *Client) Get(ctx context.Context, id int64) (records.Record, error) {
	var payload records.Record
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &payload); err != nil {
		return records.Record{}, err
	}
	return payload, nil
}

// Create posts a draft and returns the server representation, including the
// assigned id.
func (c *Client) Create(ctx context.Context, draft records.Draft) (records.Record, error) {
	var payload records.Record
	if err := c.do(ctx, http.MethodPost, postsPath, draft, &payload); err != nil {
		return records.Record{}, err
	}
	return payload, nil
}

// Replace sends a full PUT for id and returns the server representation.
func (c *Client) Replace(ctx context.Context, id int64, full records.Record) (records.Record, error) {
	var payload records.Record
	if err := c.do(ctx, http.MethodPut, itemPath(id), full, &payload); err != nil {
		return records.Record{}, err
	}
	return payload, nil
}

// Remove deletes id on the remote.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id int64) string {
	return postsPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, rel string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := *c.baseURL
	reqURL.Path = path.Join("/", c.baseURL.Path, rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait: %w", records.ErrTransport, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", reqURL.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%w: execute request: %w", records.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", reqURL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		return &records.StatusError{Method: method, Path: reqURL.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %w", records.ErrMalformed, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
