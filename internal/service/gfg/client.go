package gfg

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

const scraperWarning = "stats read from the public profile page; calendar and ranks unavailable"

// Client fetches GFG stats from the JSON proxy, falling back to the profile
// page scraper when one is configured.
type Client struct {
	requester  httpclient.Requester
	scraper    *ProfileScraper
	windowDays int
	now        func() time.Time
	logger     *zap.Logger
}

// NewClient builds the adapter. scraper may be nil to disable the fallback.
func NewClient(requester httpclient.Requester, scraper *ProfileScraper, windowDays int, logger *zap.Logger) *Client {
	return &Client{
		requester:  requester,
		scraper:    scraper,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

func (c *Client) FetchStats(ctx context.Context, handle string) (*domain.NormalizedPlatformStats, error) {
	ctx, span := otel.Tracer("github.com/kapu/codestats-go/gfg").Start(ctx, "gfg.fetch_stats")
	defer span.End()
	span.SetAttributes(attribute.String("handle", handle))

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.NewPlatformError(domain.PlatformGFG.String(),
			errors.NewValidationError("handle is required", "handle", handle))
	}

	raw, err := c.fetchRaw(ctx, handle)
	if err == nil {
		return Normalize(handle, raw, c.now(), c.windowDays), nil
	}

	if c.scraper == nil || ctx.Err() != nil {
		return nil, errors.NewPlatformError(domain.PlatformGFG.String(), err)
	}

	c.logger.Warn("GFG API failed, trying profile page", zap.String("handle", handle), zap.Error(err))
	scraped, scrapeErr := c.scraper.Scrape(ctx, handle)
	if scrapeErr != nil {
		c.logger.Warn("GFG profile page fallback failed", zap.String("handle", handle), zap.Error(scrapeErr))
		return nil, errors.NewPlatformError(domain.PlatformGFG.String(), err)
	}

	stats := Normalize(handle, scraped, c.now(), c.windowDays)
	stats.AddWarning(scraperWarning)
	return stats, nil
}

func (c *Client) fetchRaw(ctx context.Context, handle string) (*rawStats, error) {
	var raw rawStats
	if err := c.requester.GetJSON(ctx, "", url.Values{"username": {handle}}, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, fmt.Errorf("gfg: %s", raw.Error)
	}
	return &raw, nil
}
