package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/util"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/kapu/codestats-go/httpclient"

// Requester is the read-only upstream access the platform adapters need.
type Requester interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
	GetJSON(ctx context.Context, path string, params url.Values, dest any) error
	IsCircuitOpen() bool
}

type Config struct {
	// Name labels logs, spans and the circuit breaker, e.g. "codeforces".
	Name    string
	BaseURL string
	Timeout time.Duration
	// Limiter throttles outgoing requests when the upstream enforces a rate.
	Limiter *rate.Limiter
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client issues GET requests against one upstream API behind a circuit breaker.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.APIConfig.RequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		breaker: util.NewCircuitBreaker(cfg.Name,
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger),
		logger: logger.With(zap.String("upstream", cfg.Name)),
	}
}

func (c *Client) IsCircuitOpen() bool {
	return !c.breaker.CanExecute()
}

// Get fetches baseURL+path. On an HTTP error status the body is still returned
// alongside the *errors.APIError, since some upstreams put their failure
// reason in it.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, c.name+".get")
	defer span.End()
	span.SetAttributes(
		attribute.String("upstream", c.name),
		attribute.String("http.url", reqURL),
	)

	if !c.breaker.CanExecute() {
		retryAfter := c.breaker.RetryAfter()
		c.logger.Warn("Circuit breaker is open", zap.Duration("retry_after", retryAfter))
		err := errors.NewAPIError("circuit breaker open", http.StatusServiceUnavailable, map[string]any{
			"upstream":       c.name,
			"retry_after_ms": retryAfter.Milliseconds(),
		})
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// An abandoned request says nothing about upstream health.
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
		c.logger.Warn("Request failed", zap.String("url", reqURL), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.APIConfig.MaxBodyBytes))
	resp.Body.Close()
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read %s response: %w", c.name, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("Upstream responded",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
		err := errors.NewAPIError(fmt.Sprintf("%s server error: %d", c.name, resp.StatusCode), resp.StatusCode, map[string]any{
			"url": reqURL,
		})
		span.SetStatus(codes.Error, err.Error())
		return body, err
	}

	if resp.StatusCode >= 400 {
		// 4xx means a bad handle, not an unhealthy upstream.
		c.breaker.RecordSuccess()
		err := errors.NewAPIError(fmt.Sprintf("%s client error: %d", c.name, resp.StatusCode), resp.StatusCode, map[string]any{
			"url":  reqURL,
			"body": truncate(string(body), 200),
		})
		span.SetStatus(codes.Error, err.Error())
		return body, err
	}

	c.breaker.RecordSuccess()
	return body, nil
}

// GetJSON is Get followed by a JSON decode into dest.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, dest any) error {
	body, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	return DecodeJSON(c.name, body, dest)
}

// DecodeJSON decodes an upstream body, classifying failures as malformed payloads.
func DecodeJSON(upstream string, body []byte, dest any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.NewAPIError(upstream+": empty response body", http.StatusBadGateway, nil)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.NewAPIError(upstream+": malformed response body", http.StatusBadGateway, map[string]any{
			"body": truncate(string(body), 200),
		}).WithCause(err)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
