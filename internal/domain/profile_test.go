package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestLinkedHandlesCanonicalOrder(t *testing.T) {
	profile := &UserProfile{
		Handles: map[Platform]string{
			PlatformCodeForces: "tourist",
			PlatformGFG:        "   ",
			PlatformLeetCode:   "alice",
		},
	}

	handles := profile.LinkedHandles()
	if len(handles) != 2 {
		t.Fatalf("expected 2 linked handles, got %v", handles)
	}
	if handles[0].Platform != PlatformLeetCode || handles[1].Platform != PlatformCodeForces {
		t.Fatalf("unexpected order: %v", handles)
	}

	var missing *UserProfile
	if len(missing.LinkedHandles()) != 0 {
		t.Fatal("nil profile has no handles")
	}
}

func TestProfileUpdateApply(t *testing.T) {
	profile := &UserProfile{
		DisplayName: "Alice",
		Handles:     map[Platform]string{PlatformLeetCode: "alice", PlatformGFG: "alice_gfg"},
	}

	ProfileUpdate{
		DisplayName: strPtr(" Alice B "),
		Handles: map[Platform]*string{
			PlatformGFG:        strPtr(""),
			PlatformCodeForces: strPtr(" alice_cf "),
			PlatformLeetCode:   nil,
		},
	}.Apply(profile)

	if profile.DisplayName != "Alice B" {
		t.Fatalf("unexpected display name %q", profile.DisplayName)
	}
	if _, ok := profile.Handles[PlatformGFG]; ok {
		t.Fatal("empty handle should unlink the platform")
	}
	if profile.Handles[PlatformCodeForces] != "alice_cf" {
		t.Fatalf("expected trimmed handle, got %q", profile.Handles[PlatformCodeForces])
	}
	if profile.Handles[PlatformLeetCode] != "alice" {
		t.Fatal("nil entries must leave handles untouched")
	}
}
