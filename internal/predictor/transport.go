package predictor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// TransportConfig holds configuration for the rate limited HTTP transport
type TransportConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultTransportConfig returns defaults matching a single interactive user
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout:      15 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RateLimit:    5.0,
	}
}

// RateLimitedTransport wraps retryablehttp.Client with a token bucket limiter
type RateLimitedTransport struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewRateLimitedTransport creates a new rate-limited HTTP transport
func NewRateLimitedTransport(cfg TransportConfig, logger *logrus.Logger) *RateLimitedTransport {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	// Hand the last response back so callers can report its status and body.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		retryClient.Logger = logger.WithField("component", "predictor_transport")
	} else {
		retryClient.Logger = nil
	}

	return &RateLimitedTransport{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// Do executes an HTTP request after waiting for the rate limiter
func (t *RateLimitedTransport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return t.client.Do(retryReq)
}

// Post executes a POST request
func (t *RateLimitedTransport) Post(ctx context.Context, url, contentType string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.Do(ctx, req)
}

// Close releases idle connections
func (t *RateLimitedTransport) Close() error {
	t.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy retries network errors, 429 and gateway failures only
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
