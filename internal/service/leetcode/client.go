package leetcode

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/service/httpclient"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Client fetches one handle's stats from the LeetCode stats proxy.
type Client struct {
	requester  httpclient.Requester
	windowDays int
	now        func() time.Time
	logger     *zap.Logger
}

func NewClient(requester httpclient.Requester, windowDays int, logger *zap.Logger) *Client {
	return &Client{
		requester:  requester,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// FetchStats issues GET /<handle>. Any failure comes back as a PlatformError.
func (c *Client) FetchStats(ctx context.Context, handle string) (*domain.NormalizedPlatformStats, error) {
	ctx, span := otel.Tracer("github.com/kapu/codestats-go/leetcode").Start(ctx, "leetcode.fetch_stats")
	defer span.End()
	span.SetAttributes(attribute.String("handle", handle))

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.NewPlatformError(domain.PlatformLeetCode.String(),
			errors.NewValidationError("handle is required", "handle", handle))
	}

	var raw rawStats
	if err := c.requester.GetJSON(ctx, "/"+url.PathEscape(handle), nil, &raw); err != nil {
		c.logger.Warn("LeetCode fetch failed", zap.String("handle", handle), zap.Error(err))
		return nil, errors.NewPlatformError(domain.PlatformLeetCode.String(), err)
	}
	if strings.EqualFold(raw.Status, "error") {
		message := raw.Message
		if message == "" {
			message = "upstream reported an error"
		}
		return nil, errors.NewPlatformError(domain.PlatformLeetCode.String(),
			fmt.Errorf("leetcode: %s", message))
	}

	stats := Normalize(handle, &raw, c.now(), c.windowDays)
	c.logger.Debug("LeetCode stats fetched",
		zap.String("handle", handle),
		zap.Int("solved", stats.TotalSolved),
		zap.Int("calendar_days", len(stats.SubmissionCalendar)))
	return stats, nil
}
