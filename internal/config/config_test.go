package config

import (
	"testing"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROFILE_STORE", "")
	t.Setenv("GFG_BUCKET_POLICY", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("CF_EASY_MAX_RATING", "")
	t.Setenv("CF_MEDIUM_MAX_RATING", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Profile.Store != ProfileStoreSQLite {
		t.Fatalf("expected sqlite store, got %q", cfg.Profile.Store)
	}
	if cfg.Dashboard.BucketPolicy != domain.BucketPolicySeparate {
		t.Fatalf("expected separate policy, got %q", cfg.Dashboard.BucketPolicy)
	}
	if cfg.Platforms.HTTPTimeout != 12*time.Second {
		t.Fatalf("expected 12s timeout, got %v", cfg.Platforms.HTTPTimeout)
	}
	if cfg.Dashboard.EasyMaxRating != 1200 || cfg.Dashboard.MediumMaxRating != 2000 {
		t.Fatalf("unexpected thresholds %d/%d", cfg.Dashboard.EasyMaxRating, cfg.Dashboard.MediumMaxRating)
	}
}

func TestLoadRejectsUnknownBucketPolicy(t *testing.T) {
	t.Setenv("GFG_BUCKET_POLICY", "omit")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown bucket policy")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("GFG_BUCKET_POLICY", "")
	t.Setenv("CF_EASY_MAX_RATING", "2100")
	t.Setenv("CF_MEDIUM_MAX_RATING", "2000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when easy threshold exceeds medium threshold")
	}
}

func TestLoadRequiresSecretForIdentityStream(t *testing.T) {
	t.Setenv("GFG_BUCKET_POLICY", "")
	t.Setenv("CF_EASY_MAX_RATING", "")
	t.Setenv("CF_MEDIUM_MAX_RATING", "")
	t.Setenv("IDENTITY_WS_URL", "ws://localhost:9000/auth")
	t.Setenv("IDENTITY_SIGNING_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when identity stream has no signing secret")
	}
}
