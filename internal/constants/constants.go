package constants

import "time"

var APIConfig = struct {
	LeetCodeBaseURL   string
	GFGBaseURL        string
	GFGProfileBaseURL string
	CodeForcesBaseURL string
	RequestTimeout    time.Duration
	UserAgent         string
	MaxBodyBytes      int64
}{
	LeetCodeBaseURL:   "https://leetcode-stats-api.herokuapp.com",
	GFGBaseURL:        "https://geeksforgeeksapi.vercel.app/api/gfg",
	GFGProfileBaseURL: "https://www.geeksforgeeks.org/user",
	CodeForcesBaseURL: "https://codeforces.com/api",
	RequestTimeout:    12 * time.Second,
	UserAgent:         "codestats-go/1.0 (+https://github.com/kapu/codestats-go)",
	MaxBodyBytes:      32 << 20, // user.status for prolific handles is large
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3 consecutive failures open the circuit
	ResetTimeout:     30 * time.Second, // half-open after 30s
}

var CodeForcesLimits = struct {
	RequestsPerSecond float64
	Burst             int
}{
	RequestsPerSecond: 2,
	Burst:             3, // info/status/rating go out together
}

// DifficultyThresholds is the canonical CodeForces problem-rating bucketing.
var DifficultyThresholds = struct {
	EasyMax   int
	MediumMax int
}{
	EasyMax:   1200,
	MediumMax: 2000,
}

var Dashboard = struct {
	CalendarWindowDays     int
	RecentSubmissionsLimit int
	DefaultBucketPolicy    string
}{
	CalendarWindowDays:     180,
	RecentSubmissionsLimit: 5,
	DefaultBucketPolicy:    "separate",
}

var CacheTTL = struct {
	Profile time.Duration
}{
	Profile: 30 * time.Minute,
}

var IdentityStreamConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	HandshakeTimeout     time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
	HandshakeTimeout:     10 * time.Second,
}
