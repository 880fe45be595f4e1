package profile

import (
	"context"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.uber.org/zap"
)

// TokenVerifier turns an identity token into the uid it was issued for.
type TokenVerifier interface {
	VerifyUID(ctx context.Context, token string) (string, error)
}

// Resolver maps an identity to the user's linked platform handles.
type Resolver struct {
	store    Store
	verifier TokenVerifier
	logger   *zap.Logger
}

func NewResolver(store Store, verifier TokenVerifier, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:    store,
		verifier: verifier,
		logger:   logger,
	}
}

// ResolveHandles verifies the token and returns the handles of its profile.
func (r *Resolver) ResolveHandles(ctx context.Context, identityToken string) ([]domain.PlatformHandle, error) {
	_, handles, err := r.ResolveIdentity(ctx, identityToken)
	return handles, err
}

// ResolveIdentity is ResolveHandles that also reports the verified uid. The
// uid is set whenever verification succeeded, including when the profile
// does not exist yet.
func (r *Resolver) ResolveIdentity(ctx context.Context, identityToken string) (string, []domain.PlatformHandle, error) {
	if r.verifier == nil {
		return "", nil, errors.NewValidationError("identity verification is not configured", "token", "")
	}
	uid, err := r.verifier.VerifyUID(ctx, identityToken)
	if err != nil {
		return "", nil, err
	}
	handles, err := r.ResolveUID(ctx, uid)
	return uid, handles, err
}

// ResolveUID returns the present handles for uid in canonical platform
// order. A missing profile comes back as *errors.ProfileNotFoundError.
func (r *Resolver) ResolveUID(ctx context.Context, uid string) ([]domain.PlatformHandle, error) {
	profile, err := r.store.GetUserProfile(ctx, uid)
	if err != nil {
		if errors.IsProfileNotFound(err) {
			r.logger.Debug("No profile for identity", zap.String("uid", uid))
		}
		return nil, err
	}

	handles := profile.LinkedHandles()
	r.logger.Debug("Handles resolved", zap.String("uid", uid), zap.Int("linked", len(handles)))
	return handles, nil
}
