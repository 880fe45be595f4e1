package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestProfileNotFound_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolve handles: %w", NewProfileNotFoundError("uid-1"))

	if !IsProfileNotFound(err) {
		t.Fatalf("expected wrapped error to match ErrProfileNotFound")
	}

	var notFound *ProfileNotFoundError
	if !stderrors.As(err, &notFound) || notFound.UID != "uid-1" {
		t.Fatalf("expected ProfileNotFoundError with uid, got %v", err)
	}
	if IsProfileNotFound(NewPlatformError("gfg", nil)) {
		t.Fatalf("platform error must not look like a missing profile")
	}
}

func TestPlatformError_UnwrapsCause(t *testing.T) {
	cause := NewAPIError("codeforces: handles: User with handle x not found", 400, nil)
	err := NewPlatformError("codeforces", cause)

	var apiErr *APIError
	if !stderrors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Fatalf("expected APIError cause with status 400, got %v", err)
	}
	if !strings.Contains(err.Error(), "codeforces: fetch failed") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if IsPartial(err) {
		t.Fatalf("full failure must not be partial")
	}
}

func TestPartialPlatformError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewPartialPlatformError("codeforces", []string{"user.status"}, stderrors.New("timeout")))

	if !IsPartial(err) {
		t.Fatalf("expected IsPartial to see through wrapping")
	}
	if !strings.Contains(err.Error(), "user.status unavailable") {
		t.Fatalf("message should name the failed call: %q", err.Error())
	}
}
