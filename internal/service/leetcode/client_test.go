package leetcode

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/service/httpclient"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	requester := httpclient.New(httpclient.Config{Name: "leetcode", BaseURL: server.URL}, zap.NewNop())
	client := NewClient(requester, 180, zap.NewNop())
	client.now = func() time.Time { return fixedNow }
	return client
}

func TestFetchStatsNormalizesPayload(t *testing.T) {
	day := domain.DayKey(fixedNow.Unix())
	oldDay := day - 400*domain.SecondsPerDay

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alice" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{
			"status": "success",
			"totalSolved": 120,
			"easySolved": "60",
			"mediumSolved": 50,
			"hardSolved": 10,
			"ranking": 35210,
			"contributionPoint": 88,
			"reputation": 3,
			"totalSubmissions": [
				{"difficulty": "All", "count": 120, "submissions": 410},
				{"difficulty": "Easy", "count": 60, "submissions": 150}
			],
			"submissionCalendar": "{\"%d\": 4, \"%d\": 7}",
			"recentSubmissions": [
				{"title": "Two Sum", "statusDisplay": "Accepted", "lang": "go", "timestamp": "%d"},
				{"title": "LRU Cache", "statusDisplay": "Wrong Answer", "lang": "go", "timestamp": %d}
			]
		}`, day+3600, oldDay, day+100, day+200)
	})

	stats, err := client.FetchStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalSolved != 120 {
		t.Fatalf("expected 120 solved, got %d", stats.TotalSolved)
	}
	want := domain.DifficultyBreakdown{Easy: 60, Medium: 50, Hard: 10}
	if stats.Difficulty != want {
		t.Fatalf("unexpected breakdown %+v", stats.Difficulty)
	}
	if v, _ := stats.TotalSubmissions.Int(); v != 410 {
		t.Fatalf("expected the All entry's submissions, got %s", stats.TotalSubmissions)
	}
	if v, _ := stats.Contribution.Int(); v != 88 {
		t.Fatalf("unexpected contribution %s", stats.Contribution)
	}
	if len(stats.SubmissionCalendar) != 1 || stats.SubmissionCalendar[day] != 4 {
		t.Fatalf("expected only today's entry, got %v", stats.SubmissionCalendar)
	}
	if len(stats.RecentSubmissions) != 2 || stats.RecentSubmissions[0].Title != "LRU Cache" {
		t.Fatalf("expected most recent first, got %+v", stats.RecentSubmissions)
	}
	if !stats.Rating.IsNA() {
		t.Fatal("leetcode has no rating in this payload")
	}
}

func TestNormalizeCalendarUnits(t *testing.T) {
	day := domain.DayKey(fixedNow.Unix())

	tests := []struct {
		name string
		key  int64
	}{
		{"seconds", day + 5*3600},
		{"milliseconds", (day + 5*3600) * 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &rawStats{SubmissionCalendar: domain.RawCalendar{tt.key: 3}}
			stats := Normalize("alice", raw, fixedNow, 180)
			if stats.SubmissionCalendar[day] != 3 {
				t.Fatalf("expected count on UTC day %d, got %v", day, stats.SubmissionCalendar)
			}
		})
	}
}

func TestNormalizeLimitsRecentSubmissions(t *testing.T) {
	raw := &rawStats{}
	for i := 0; i < 8; i++ {
		raw.RecentSubmissions = append(raw.RecentSubmissions, rawSubmission{
			Title:     fmt.Sprintf("p%d", i),
			Timestamp: domain.IntMetric(int64(1_700_000_000 + i)),
		})
	}

	stats := Normalize("alice", raw, fixedNow, 180)
	if len(stats.RecentSubmissions) != 5 {
		t.Fatalf("expected 5 submissions, got %d", len(stats.RecentSubmissions))
	}
	if stats.RecentSubmissions[0].Title != "p7" {
		t.Fatalf("expected newest first, got %s", stats.RecentSubmissions[0].Title)
	}
}

func TestNormalizeFallsBackToBucketSum(t *testing.T) {
	raw := &rawStats{
		EasySolved:   domain.IntMetric(3),
		MediumSolved: domain.IntMetric(2),
	}
	stats := Normalize("alice", raw, fixedNow, 180)
	if stats.TotalSolved != 5 {
		t.Fatalf("expected bucket sum 5, got %d", stats.TotalSolved)
	}
	if !stats.TotalSubmissions.IsNA() {
		t.Fatal("missing submissions should be NA")
	}
}

func TestFetchStatsUpstreamErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"user does not exist"}`))
	})

	_, err := client.FetchStats(context.Background(), "ghost")
	var platformErr *errors.PlatformError
	if !stderrors.As(err, &platformErr) || platformErr.Platform != "leetcode" {
		t.Fatalf("expected leetcode PlatformError, got %v", err)
	}
}

func TestFetchStatsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if _, err := client.FetchStats(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown handle")
	}
}

func TestNormalizeAvailableProblemsAndActiveDays(t *testing.T) {
	raw := &rawStats{
		EasySolved:      domain.IntMetric(10),
		TotalEasy:       domain.IntMetric(850),
		TotalMedium:     domain.TextMetric("1780"),
		TotalActiveDays: domain.IntMetric(42),
	}
	stats := Normalize("alice", raw, fixedNow, 180)

	if v, _ := stats.Available.Easy.Int(); v != 850 {
		t.Fatalf("expected 850 easy problems available, got %s", stats.Available.Easy)
	}
	if v, _ := stats.Available.Medium.Int(); v != 1780 {
		t.Fatalf("expected 1780 medium problems available, got %s", stats.Available.Medium)
	}
	if !stats.Available.Hard.IsNA() {
		t.Fatalf("missing hard total must be NA, got %s", stats.Available.Hard)
	}
	if v, _ := stats.ActiveDays.Int(); v != 42 {
		t.Fatalf("expected 42 active days, got %s", stats.ActiveDays)
	}

	empty := Normalize("alice", &rawStats{}, fixedNow, 180)
	if !empty.ActiveDays.IsNA() || !empty.Available.Easy.IsNA() {
		t.Fatal("missing totals must be NA")
	}
}
