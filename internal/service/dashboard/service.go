package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/service/aggregator"
	"github.com/kapu/codestats-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Fetcher is one platform adapter.
type Fetcher interface {
	FetchStats(ctx context.Context, handle string) (*domain.NormalizedPlatformStats, error)
}

// HandleResolver looks up the linked handles of a uid or of an identity
// token. ResolveIdentity reports the verified uid even when the profile is
// missing.
type HandleResolver interface {
	ResolveUID(ctx context.Context, uid string) ([]domain.PlatformHandle, error)
	ResolveIdentity(ctx context.Context, token string) (string, []domain.PlatformHandle, error)
}

type resolveFunc func(ctx context.Context) ([]domain.PlatformHandle, error)

// SectionCallback receives each platform section as soon as its adapter
// settles, before the totals are known. Calls are serialized.
type SectionCallback func(section domain.PlatformSection)

type Config struct {
	// Timeout bounds each adapter call.
	Timeout      time.Duration
	BucketPolicy domain.BucketPolicy
}

// Service runs the dashboard pipeline: resolve handles, fetch every linked
// platform in parallel, wait for all of them, aggregate once.
type Service struct {
	resolver HandleResolver
	fetchers map[domain.Platform]Fetcher
	cfg      Config
	now      func() time.Time
	logger   *zap.Logger

	guardMu sync.Mutex
	guard   map[string]*domain.AggregatedDashboardView
}

func NewService(resolver HandleResolver, fetchers map[domain.Platform]Fetcher, cfg Config, logger *zap.Logger) *Service {
	if cfg.BucketPolicy == "" {
		cfg.BucketPolicy = domain.BucketPolicySeparate
	}
	return &Service{
		resolver: resolver,
		fetchers: fetchers,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
		guard:    make(map[string]*domain.AggregatedDashboardView),
	}
}

// Load returns the dashboard for uid. A view whose sections all loaded is
// kept for the session and returned without refetching.
func (s *Service) Load(ctx context.Context, uid string) (*domain.AggregatedDashboardView, error) {
	return s.load(ctx, uid, nil, false)
}

// Stream is Load with per-section notifications.
func (s *Service) Stream(ctx context.Context, uid string, onSection SectionCallback) (*domain.AggregatedDashboardView, error) {
	return s.load(ctx, uid, onSection, false)
}

// Refresh drops the session copy for uid and loads from scratch.
func (s *Service) Refresh(ctx context.Context, uid string) (*domain.AggregatedDashboardView, error) {
	s.Invalidate(uid)
	return s.load(ctx, uid, nil, true)
}

// LoadForToken resolves an identity token to its uid and handles, then
// loads that user's dashboard.
func (s *Service) LoadForToken(ctx context.Context, token string, refresh bool) (*domain.AggregatedDashboardView, error) {
	uid, handles, err := s.resolver.ResolveIdentity(ctx, token)
	if err != nil && (uid == "" || !errors.IsProfileNotFound(err)) {
		return nil, err
	}

	if refresh {
		s.Invalidate(uid)
	} else if view, ok := s.cached(uid); ok {
		s.logger.Debug("Dashboard served from session", zap.String("uid", uid))
		return view, nil
	}

	return s.run(ctx, uid, func(context.Context) ([]domain.PlatformHandle, error) {
		return handles, err
	}, nil)
}

// Invalidate drops the session copy for uid.
func (s *Service) Invalidate(uid string) {
	s.guardMu.Lock()
	delete(s.guard, uid)
	s.guardMu.Unlock()
}

func (s *Service) cached(uid string) (*domain.AggregatedDashboardView, bool) {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()
	view, ok := s.guard[uid]
	if !ok {
		return nil, false
	}
	return view.Clone(), true
}

// keep stores the session copy unless ctx is already cancelled. The check
// runs under guardMu, so an Invalidate issued after cancelling always wins.
func (s *Service) keep(ctx context.Context, uid string, view *domain.AggregatedDashboardView) error {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.guard[uid] = view.Clone()
	return nil
}

func (s *Service) load(ctx context.Context, uid string, onSection SectionCallback, force bool) (*domain.AggregatedDashboardView, error) {
	if !force {
		if view, ok := s.cached(uid); ok {
			s.logger.Debug("Dashboard served from session", zap.String("uid", uid))
			if onSection != nil {
				for _, section := range view.Sections {
					onSection(section)
				}
			}
			return view, nil
		}
	}

	return s.run(ctx, uid, func(ctx context.Context) ([]domain.PlatformHandle, error) {
		return s.resolver.ResolveUID(ctx, uid)
	}, onSection)
}

// run resolves handles, fetches every linked platform and aggregates.
func (s *Service) run(ctx context.Context, uid string, resolve resolveFunc, onSection SectionCallback) (*domain.AggregatedDashboardView, error) {
	loadID := uuid.NewString()
	logger := s.logger.With(zap.String("load_id", loadID), zap.String("uid", uid))

	ctx, span := otel.Tracer("github.com/kapu/codestats-go/dashboard").Start(ctx, "dashboard.load",
		trace.WithAttributes(attribute.String("load_id", loadID), attribute.String("uid", uid)))
	defer span.End()

	handles, err := resolve(ctx)
	if err != nil {
		if errors.IsProfileNotFound(err) {
			logger.Info("No profile yet, returning onboarding view")
			view := aggregator.Aggregate(uid, nil, s.cfg.BucketPolicy, s.now())
			view.Onboarding = true
			return &view, nil
		}
		return nil, fmt.Errorf("resolve handles: %w", err)
	}

	started := time.Now()
	results := s.fetchAll(ctx, handles, onSection, logger)

	if err := ctx.Err(); err != nil {
		logger.Info("Dashboard load abandoned", zap.Error(err))
		return nil, err
	}

	view := aggregator.Aggregate(uid, results, s.cfg.BucketPolicy, s.now())

	if view.Complete() {
		if err := s.keep(ctx, uid, &view); err != nil {
			logger.Info("Dashboard load abandoned", zap.Error(err))
			return nil, err
		}
	}

	logger.Info("Dashboard loaded",
		zap.Int("platforms", len(view.Sections)),
		zap.Int("total_problems", view.TotalProblems),
		zap.Bool("complete", view.Complete()),
		zap.Duration("elapsed", time.Since(started)),
	)
	return &view, nil
}

// fetchAll runs every linked adapter and waits for all of them to settle.
// One adapter failing never cancels the others.
func (s *Service) fetchAll(ctx context.Context, handles []domain.PlatformHandle, onSection SectionCallback, logger *zap.Logger) map[domain.Platform]domain.PlatformResult {
	results := make([]domain.PlatformResult, len(handles))
	if len(handles) == 0 {
		return map[domain.Platform]domain.PlatformResult{}
	}

	var callbackMu sync.Mutex
	p := pool.New().WithMaxGoroutines(len(handles))

	for idx, handle := range handles {
		p.Go(func() {
			result := s.fetchOne(ctx, handle)
			results[idx] = result

			if result.Err != nil {
				logger.Warn("Platform fetch failed",
					zap.String("platform", handle.Platform.String()),
					zap.String("handle", handle.Username),
					zap.Bool("partial", errors.IsPartial(result.Err)),
					zap.Error(result.Err),
				)
			}

			if onSection != nil && ctx.Err() == nil {
				callbackMu.Lock()
				onSection(aggregator.BuildSection(handle.Platform, result))
				callbackMu.Unlock()
			}
		})
	}
	p.Wait()

	byPlatform := make(map[domain.Platform]domain.PlatformResult, len(handles))
	for idx, handle := range handles {
		byPlatform[handle.Platform] = results[idx]
	}
	return byPlatform
}

func (s *Service) fetchOne(ctx context.Context, handle domain.PlatformHandle) domain.PlatformResult {
	result := domain.PlatformResult{Handle: handle.Username}

	fetcher, ok := s.fetchers[handle.Platform]
	if !ok {
		result.Err = errors.NewPlatformError(handle.Platform.String(), fmt.Errorf("no adapter configured"))
		return result
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = constants.APIConfig.RequestTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result.Stats, result.Err = fetcher.FetchStats(fetchCtx, handle.Username)
	return result
}
