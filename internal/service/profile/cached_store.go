package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"go.uber.org/zap"
)

// Cache is the slice of cache.CacheService the cached store needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedStore is a read-through cache in front of another Store. Writes go
// to the inner store first and then refresh the cached copy. Cache failures
// are logged and never fail the call.
type CachedStore struct {
	inner  Store
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(inner Store, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(uid string) string {
	return fmt.Sprintf("codestats:profile:%s", uid)
}

func (s *CachedStore) GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var cached domain.UserProfile
	found, err := s.cache.Get(ctx, cacheKey(uid), &cached)
	if err != nil {
		s.logger.Warn("Profile cache read failed", zap.String("uid", uid), zap.Error(err))
	}
	if found && err == nil {
		s.logger.Debug("Profile cache hit", zap.String("uid", uid))
		return &cached, nil
	}

	profile, err := s.inner.GetUserProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.store(ctx, profile)
	return profile, nil
}

func (s *CachedStore) UpdateUserProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	profile, err := s.inner.UpdateUserProfile(ctx, uid, update)
	if err != nil {
		if delErr := s.cache.Del(ctx, cacheKey(uid)); delErr != nil {
			s.logger.Warn("Profile cache invalidation failed", zap.String("uid", uid), zap.Error(delErr))
		}
		return nil, err
	}
	s.store(ctx, profile)
	return profile, nil
}

func (s *CachedStore) EnsureProfile(ctx context.Context, uid, displayName, avatarURL string) (*domain.UserProfile, error) {
	profile, err := s.inner.EnsureProfile(ctx, uid, displayName, avatarURL)
	if err != nil {
		return nil, err
	}
	s.store(ctx, profile)
	return profile, nil
}

func (s *CachedStore) store(ctx context.Context, profile *domain.UserProfile) {
	if err := s.cache.Set(ctx, cacheKey(profile.UID), profile, s.ttl); err != nil {
		s.logger.Warn("Profile cache write failed", zap.String("uid", profile.UID), zap.Error(err))
	}
}
