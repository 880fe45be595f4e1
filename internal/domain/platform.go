package domain

import "strings"

// Platform identifies one external coding platform.
type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformGFG        Platform = "gfg"
	PlatformCodeForces Platform = "codeforces"
)

// CanonicalPlatforms is the fixed section order of every dashboard view.
var CanonicalPlatforms = []Platform{PlatformLeetCode, PlatformGFG, PlatformCodeForces}

func (p Platform) String() string {
	return string(p)
}

// DisplayName returns the human-facing platform name.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformGFG:
		return "GeeksforGeeks"
	case PlatformCodeForces:
		return "CodeForces"
	default:
		return string(p)
	}
}

func (p Platform) IsValid() bool {
	switch p {
	case PlatformLeetCode, PlatformGFG, PlatformCodeForces:
		return true
	}
	return false
}

// ParsePlatform accepts the canonical names plus a few common spellings.
func ParsePlatform(value string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "leetcode", "lc":
		return PlatformLeetCode, true
	case "gfg", "geeksforgeeks":
		return PlatformGFG, true
	case "codeforces", "cf":
		return PlatformCodeForces, true
	}
	return "", false
}

// PlatformHandle pairs a platform with the user's username there.
type PlatformHandle struct {
	Platform Platform `json:"platform"`
	Username string   `json:"username"`
}
