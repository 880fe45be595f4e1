package app

import (
	"context"
	"fmt"

	"github.com/kapu/codestats-go/internal/config"
	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/identity"
	"github.com/kapu/codestats-go/internal/observability"
	"github.com/kapu/codestats-go/internal/service/cache"
	"github.com/kapu/codestats-go/internal/service/codeforces"
	"github.com/kapu/codestats-go/internal/service/dashboard"
	"github.com/kapu/codestats-go/internal/service/database"
	"github.com/kapu/codestats-go/internal/service/gfg"
	"github.com/kapu/codestats-go/internal/service/httpclient"
	"github.com/kapu/codestats-go/internal/service/leetcode"
	"github.com/kapu/codestats-go/internal/service/profile"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Version is reported in logs and trace resources.
const Version = "1.0.0"

// Container bundles the assembled services the CLI commands run against.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Profiles  profile.Store
	Resolver  *profile.Resolver
	Dashboard *dashboard.Service
	Identity  *identity.Observable
	// Verifier is nil when no signing secret is configured.
	Verifier *identity.Verifier
	// Stream is nil when no identity stream URL is configured.
	Stream *identity.StreamSource

	cache     *cache.CacheService
	upstreams []upstream
	closers   []func()
}

type upstream struct {
	name      string
	requester httpclient.Requester
}

// Check is one dependency's line in a health report.
type Check struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Health reports the profile cache connection and each upstream's circuit.
func (c *Container) Health(ctx context.Context) []Check {
	checks := make([]Check, 0, len(c.upstreams)+1)
	if c.cache != nil {
		check := Check{Name: "redis", Healthy: c.cache.IsConnected(ctx)}
		if !check.Healthy {
			check.Detail = "unreachable"
		}
		checks = append(checks, check)
	}
	for _, u := range c.upstreams {
		check := Check{Name: u.name, Healthy: !u.requester.IsCircuitOpen()}
		if !check.Healthy {
			check.Detail = "circuit open"
		}
		checks = append(checks, check)
	}
	return checks
}

// Close releases everything Build opened, in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles storage, adapters and the dashboard pipeline.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container = &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			container.Close()
			container = nil
		}
	}()

	// Tracing
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     Version,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	container.closers = append(container.closers, func() {
		_ = shutdownTracing(context.Background())
	})

	// Profile store
	store, err := container.buildStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		container.closers = append(container.closers, func() {
			_ = cacheSvc.Close()
		})
		container.cache = cacheSvc
		store = profile.NewCachedStore(store, cacheSvc, constants.CacheTTL.Profile, logger)
	}
	container.Profiles = store

	// Identity
	var tokenVerifier profile.TokenVerifier
	if cfg.Identity.SigningSecret != "" {
		verifier, verifierErr := identity.NewVerifier(identity.VerifierConfig{
			SigningSecret: []byte(cfg.Identity.SigningSecret),
			Issuer:        cfg.Identity.Issuer,
		})
		if verifierErr != nil {
			return nil, fmt.Errorf("failed to create identity verifier: %w", verifierErr)
		}
		container.Verifier = verifier
		tokenVerifier = verifier
	}

	container.Identity = identity.NewObservable()
	if cfg.Identity.StreamURL != "" && container.Verifier != nil {
		container.Stream = identity.NewStreamSource(identity.StreamConfig{
			URL:                  cfg.Identity.StreamURL,
			MaxReconnectAttempts: constants.IdentityStreamConfig.MaxReconnectAttempts,
			ReconnectDelay:       constants.IdentityStreamConfig.ReconnectDelay,
			HandshakeTimeout:     constants.IdentityStreamConfig.HandshakeTimeout,
		}, container.Verifier, container.Identity, logger)
	}

	container.Resolver = profile.NewResolver(store, tokenVerifier, logger)

	// Platform adapters
	fetchers, upstreams := buildFetchers(cfg, logger)
	container.upstreams = upstreams

	container.Dashboard = dashboard.NewService(container.Resolver, fetchers, dashboard.Config{
		Timeout:      cfg.Platforms.HTTPTimeout,
		BucketPolicy: cfg.Dashboard.BucketPolicy,
	}, logger)

	logger.Info("Application services assembled",
		zap.String("profile_store", cfg.Profile.Store),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("identity_stream", container.Stream != nil),
		zap.String("bucket_policy", string(cfg.Dashboard.BucketPolicy)),
	)
	return container, nil
}

func (c *Container) buildStore(ctx context.Context) (profile.Store, error) {
	cfg := c.Config

	switch cfg.Profile.Store {
	case config.ProfileStorePostgres:
		postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = postgresSvc.Close()
		})
		if err := postgresSvc.Migrate(ctx, profile.PostgresSchema...); err != nil {
			return nil, err
		}
		return profile.NewPostgresStore(postgresSvc.GetDB(), c.Logger), nil

	default:
		db, err := database.OpenSQLite(cfg.SQLite.Path, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = database.CloseGorm(db)
		})
		store, err := profile.NewGormStore(db, c.Logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func buildFetchers(cfg *config.Config, logger *zap.Logger) (map[domain.Platform]dashboard.Fetcher, []upstream) {
	window := cfg.Dashboard.CalendarWindowDays
	timeout := cfg.Platforms.HTTPTimeout

	leetcodeRequester := httpclient.New(httpclient.Config{
		Name:    "leetcode",
		BaseURL: cfg.Platforms.LeetCodeBaseURL,
		Timeout: timeout,
	}, logger)

	gfgRequester := httpclient.New(httpclient.Config{
		Name:    "gfg",
		BaseURL: cfg.Platforms.GFGBaseURL,
		Timeout: timeout,
	}, logger)

	var (
		scraper          *gfg.ProfileScraper
		profileRequester *httpclient.Client
	)
	if cfg.Platforms.GFGScraperEnabled {
		profileRequester = httpclient.New(httpclient.Config{
			Name:    "gfg-profile",
			BaseURL: cfg.Platforms.GFGProfileBaseURL,
			Timeout: timeout,
		}, logger)
		scraper = gfg.NewProfileScraper(profileRequester, logger)
	}

	codeforcesRequester := httpclient.New(httpclient.Config{
		Name:    "codeforces",
		BaseURL: cfg.Platforms.CodeForcesBaseURL,
		Timeout: timeout,
		Limiter: rate.NewLimiter(rate.Limit(cfg.Platforms.CodeForcesRatePerSec), constants.CodeForcesLimits.Burst),
	}, logger)

	upstreams := []upstream{
		{name: "leetcode", requester: leetcodeRequester},
		{name: "gfg", requester: gfgRequester},
	}
	if profileRequester != nil {
		upstreams = append(upstreams, upstream{name: "gfg-profile", requester: profileRequester})
	}
	upstreams = append(upstreams, upstream{name: "codeforces", requester: codeforcesRequester})

	fetchers := map[domain.Platform]dashboard.Fetcher{
		domain.PlatformLeetCode: leetcode.NewClient(leetcodeRequester, window, logger),
		domain.PlatformGFG:      gfg.NewClient(gfgRequester, scraper, window, logger),
		domain.PlatformCodeForces: codeforces.NewClient(codeforcesRequester, codeforces.Thresholds{
			EasyMax:   cfg.Dashboard.EasyMaxRating,
			MediumMax: cfg.Dashboard.MediumMaxRating,
		}, window, logger),
	}
	return fetchers, upstreams
}
