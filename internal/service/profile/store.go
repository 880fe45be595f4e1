package profile

import (
	"context"
	"strings"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
)

// Store is the profile document store. A missing profile is reported as a
// *errors.ProfileNotFoundError.
type Store interface {
	GetUserProfile(ctx context.Context, uid string) (*domain.UserProfile, error)
	UpdateUserProfile(ctx context.Context, uid string, update domain.ProfileUpdate) (*domain.UserProfile, error)
	// EnsureProfile creates the profile on first sign-in and otherwise
	// returns the existing one untouched.
	EnsureProfile(ctx context.Context, uid, displayName, avatarURL string) (*domain.UserProfile, error)
}

func validateUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return errors.NewValidationError("uid is required", "uid", uid)
	}
	return nil
}

func validateUpdate(update domain.ProfileUpdate) error {
	for platform := range update.Handles {
		if !platform.IsValid() {
			return errors.NewValidationError("unknown platform", "handles", string(platform))
		}
	}
	return nil
}
