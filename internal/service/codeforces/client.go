package codeforces

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/service/httpclient"
	"github.com/kapu/codestats-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	callInfo   = "user.info"
	callStatus = "user.status"
	callRating = "user.rating"
)

// Client fetches a CodeForces handle through the three public user methods.
type Client struct {
	requester  httpclient.Requester
	thresholds Thresholds
	windowDays int
	now        func() time.Time
	logger     *zap.Logger
}

func NewClient(requester httpclient.Requester, thresholds Thresholds, windowDays int, logger *zap.Logger) *Client {
	return &Client{
		requester:  requester,
		thresholds: thresholds,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// FetchStats issues user.info, user.status and user.rating in parallel.
// If only one of info/status fails the populated half is returned together
// with a *errors.PartialPlatformError; a rating failure only adds a warning.
func (c *Client) FetchStats(ctx context.Context, handle string) (*domain.NormalizedPlatformStats, error) {
	ctx, span := otel.Tracer("github.com/kapu/codestats-go/codeforces").Start(ctx, "codeforces.fetch_stats")
	defer span.End()
	span.SetAttributes(attribute.String("handle", handle))

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.NewPlatformError(domain.PlatformCodeForces.String(),
			errors.NewValidationError("handle is required", "handle", handle))
	}

	var (
		info                         *rawUser
		submissions                  []rawSubmission
		ratings                      []rawRatingChange
		infoErr, statusErr, ratingErr error
	)

	p := pool.New().WithMaxGoroutines(3)
	p.Go(func() {
		info, infoErr = c.fetchUser(ctx, handle)
	})
	p.Go(func() {
		var result []rawSubmission
		if err := c.call(ctx, callStatus, url.Values{"handle": {handle}}, &result); err != nil {
			statusErr = err
			return
		}
		if result == nil {
			result = []rawSubmission{}
		}
		submissions = result
	})
	p.Go(func() {
		var result []rawRatingChange
		if err := c.call(ctx, callRating, url.Values{"handle": {handle}}, &result); err != nil {
			ratingErr = err
			return
		}
		if result == nil {
			result = []rawRatingChange{}
		}
		ratings = result
	})
	p.Wait()

	if infoErr != nil && statusErr != nil {
		c.logger.Warn("CodeForces fetch failed",
			zap.String("handle", handle),
			zap.NamedError("info_error", infoErr),
			zap.NamedError("status_error", statusErr))
		return nil, errors.NewPlatformError(domain.PlatformCodeForces.String(), stderrors.Join(infoErr, statusErr))
	}

	stats := Normalize(handle, info, submissions, ratings, c.thresholds, c.now(), c.windowDays)

	if ratingErr != nil {
		c.logger.Debug("CodeForces rating history unavailable", zap.String("handle", handle), zap.Error(ratingErr))
		stats.AddWarning("rating history unavailable")
	}

	switch {
	case infoErr != nil:
		stats.AddWarning("profile info unavailable; rating and rank shown as NA")
		c.logger.Warn("CodeForces partial data", zap.String("handle", handle), zap.String("failed", callInfo), zap.Error(infoErr))
		return stats, errors.NewPartialPlatformError(domain.PlatformCodeForces.String(), []string{callInfo}, infoErr)
	case statusErr != nil:
		stats.AddWarning("submissions unavailable; solved counts shown as 0")
		c.logger.Warn("CodeForces partial data", zap.String("handle", handle), zap.String("failed", callStatus), zap.Error(statusErr))
		return stats, errors.NewPartialPlatformError(domain.PlatformCodeForces.String(), []string{callStatus}, statusErr)
	}

	c.logger.Debug("CodeForces stats fetched",
		zap.String("handle", handle),
		zap.Int("solved", stats.TotalSolved),
		zap.Int("submissions", len(submissions)))
	return stats, nil
}

func (c *Client) fetchUser(ctx context.Context, handle string) (*rawUser, error) {
	var users []rawUser
	if err := c.call(ctx, callInfo, url.Values{"handles": {handle}}, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.NewAPIError("codeforces: user.info returned no users", http.StatusNotFound,
			map[string]any{"handle": handle})
	}
	return &users[0], nil
}

// call runs one API method and decodes its result. A FAILED envelope is
// reported with the API's comment, even when it came with an HTTP error.
func (c *Client) call(ctx context.Context, method string, params url.Values, dest any) error {
	body, err := c.requester.Get(ctx, "/"+method, params)

	var env envelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Status == statusFailed {
		statusCode := http.StatusBadRequest
		var apiErr *errors.APIError
		if stderrors.As(err, &apiErr) {
			statusCode = apiErr.StatusCode
		}
		return errors.NewAPIError(fmt.Sprintf("codeforces %s: %s", method, env.Comment), statusCode,
			map[string]any{"method": method})
	}
	if err != nil {
		return err
	}

	if err := httpclient.DecodeJSON("codeforces", body, &env); err != nil {
		return err
	}
	if env.Status != statusOK {
		return errors.NewAPIError(fmt.Sprintf("codeforces %s: unexpected status %q", method, env.Status),
			http.StatusBadGateway, map[string]any{"method": method})
	}
	return httpclient.DecodeJSON("codeforces", env.Result, dest)
}
