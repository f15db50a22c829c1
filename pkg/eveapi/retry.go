package eveapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryClient executes a request, retrying transient failures
type RetryClient interface {
	DoWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error)
}

// DefaultRetryClient retries network errors, 5xx and 429 with exponential backoff
type DefaultRetryClient struct {
	httpClient *http.Client
	baseDelay  time.Duration
}

// NewDefaultRetryClient creates a retry client whose first backoff is baseDelay
func NewDefaultRetryClient(httpClient *http.Client, baseDelay time.Duration) *DefaultRetryClient {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &DefaultRetryClient{
		httpClient: httpClient,
		baseDelay:  baseDelay,
	}
}

func (r *DefaultRetryClient) DoWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		attemptReq, err := cloneRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		resp, err := r.httpClient.Do(attemptReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= maxRetries {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			if err := r.wait(ctx, r.backoff(attempt, 10*time.Second), attempt, 0); err != nil {
				return nil, err
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		delay := r.backoffForStatus(resp, attempt)
		resp.Body.Close()

		if err := r.wait(ctx, delay, attempt, resp.StatusCode); err != nil {
			return nil, err
		}
	}
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

func (r *DefaultRetryClient) backoff(attempt int, limit time.Duration) time.Duration {
	d := r.baseDelay << uint(attempt)
	if d > limit || d <= 0 {
		return limit
	}
	return d
}

// backoffForStatus honours Retry-After on 429, otherwise backs off exponentially
func (r *DefaultRetryClient) backoffForStatus(resp *http.Response, attempt int) time.Duration {
	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			d := time.Duration(secs) * time.Second
			if d > time.Minute {
				d = time.Minute
			}
			return d
		}
		return r.backoff(attempt, time.Minute)
	}
	return r.backoff(attempt, 30*time.Second)
}

func (r *DefaultRetryClient) wait(ctx context.Context, d time.Duration, attempt, statusCode int) error {
	slog.WarnContext(ctx, "EVE API request failed, backing off",
		"status_code", statusCode,
		"attempt", attempt,
		"backoff_duration", d.String())

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cloneRequest copies req for another attempt, rewinding the body
func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}
