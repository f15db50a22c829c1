package eveapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-evelink/pkg/config"

	"github.com/beevik/etree"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client talks to the EVE Online XML API. It owns transport, caching and
// retries; callers receive the <result> element of each response.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	cacheManager CacheManager
	retryClient  RetryClient
	maxRetries   int
	tracer       trace.Tracer
}

// Option configures a Client
type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

func WithCacheManager(cacheManager CacheManager) Option {
	return func(c *Client) { c.cacheManager = cacheManager }
}

func WithRetryClient(retryClient RetryClient) Option {
	return func(c *Client) { c.retryClient = retryClient }
}

func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) { c.maxRetries = maxRetries }
}

// NewClient creates a client configured from the environment, then applies opts
func NewClient(opts ...Option) *Client {
	telemetry := config.TelemetryEnabled()

	var transport http.RoundTripper = http.DefaultTransport
	if telemetry {
		transport = otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
			}),
		)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   config.GetDurationEnv("EVE_API_TIMEOUT", 30*time.Second),
			Transport: transport,
		},
		baseURL:    config.GetEveAPIBaseURL(),
		userAgent:  config.GetUserAgent(),
		maxRetries: config.GetIntEnv("EVE_API_MAX_RETRIES", 3),
	}
	if telemetry {
		c.tracer = otel.Tracer("go-evelink/eveapi")
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cacheManager == nil {
		c.cacheManager = NewMemoryCacheManager(10 * time.Minute)
	}
	if c.retryClient == nil {
		c.retryClient = NewDefaultRetryClient(c.httpClient, time.Second)
	}

	return c
}

// CacheBackend names the cache in use, for status reporting
func (c *Client) CacheBackend() string {
	return c.cacheManager.Backend()
}

// Get calls path (e.g. "eve/CharacterID") with params and returns the result
// element. Errors are *APIError, *StatusError, or transport/parse errors.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*etree.Element, error) {
	path = strings.Trim(path, "/")
	cacheKey := CacheKey(path, params)

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, "eveapi.Get", trace.WithAttributes(
			attribute.String("eveapi.path", path),
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.backend", c.cacheManager.Backend()),
		))
		defer span.End()
	}

	result, err := c.get(ctx, path, params, cacheKey, span)
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, cacheKey string, span trace.Span) (*etree.Element, error) {
	if cached, found, err := c.cacheManager.Get(ctx, cacheKey); err != nil {
		slog.WarnContext(ctx, "EVE API cache lookup failed", "key", cacheKey, "error", err)
	} else if found {
		if resp, err := ParseResponse(cached); err == nil {
			if span != nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
			}
			slog.DebugContext(ctx, "Using cached EVE API response", "path", path)
			return resp.Result, nil
		}
	}

	body, statusCode, status, err := c.post(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if span != nil {
		span.SetAttributes(
			attribute.Bool("cache.hit", false),
			attribute.Int("http.status_code", statusCode),
			attribute.Int("http.response_size", len(body)),
		)
	}

	resp, err := ParseResponse(body)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.StatusCode = statusCode
		slog.WarnContext(ctx, "EVE API returned an error",
			"path", path,
			"code", apiErr.Code,
			"message", apiErr.Message,
			"status_code", statusCode)
		return nil, apiErr
	}

	if statusCode != http.StatusOK {
		slog.ErrorContext(ctx, "EVE API returned error status", "path", path, "status_code", statusCode)
		return nil, &StatusError{StatusCode: statusCode, Status: status, Path: path}
	}

	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse EVE API response", "path", path, "error", err)
		return nil, fmt.Errorf("failed to parse %s response: %w", path, err)
	}

	if ttl := resp.CacheDuration(); ttl > 0 {
		if err := c.cacheManager.Set(ctx, cacheKey, body, ttl); err != nil {
			slog.WarnContext(ctx, "Failed to cache EVE API response", "key", cacheKey, "error", err)
		}
	}

	return resp.Result, nil
}

func (c *Client) post(ctx context.Context, path string, params url.Values) ([]byte, int, string, error) {
	endpoint := c.baseURL + "/" + path + ".xml.aspx"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", c.userAgent)

	slog.InfoContext(ctx, "Requesting EVE API", "path", path)

	resp, err := c.retryClient.DoWithRetry(ctx, req, c.maxRetries)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to call EVE API", "path", path, "error", err)
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, resp.Status, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, resp.Status, nil
}
