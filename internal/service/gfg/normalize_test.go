package gfg

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParseCount(t *testing.T) {
	tests := []struct {
		name  string
		label *string
		want  int
	}{
		{"well formed", strPtr("Basic (141)"), 141},
		{"empty parens", strPtr("Basic ()"), 0},
		{"absent", nil, 0},
		{"no parens", strPtr("Basic"), 0},
		{"zero", strPtr("School (0)"), 0},
		{"non numeric", strPtr("Hard (n/a)"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCount(tt.label); got != tt.want {
				t.Fatalf("ParseCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeBuckets(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	raw := &rawStats{
		School:      strPtr("School (2)"),
		Basic:       strPtr("Basic (141)"),
		Easy:        strPtr("Easy (30)"),
		Medium:      strPtr("Medium (12)"),
		Hard:        nil,
		CodingScore: domain.IntMetric(512),
		GlobalRank:  domain.TextMetric("1024"),
		Streak:      domain.IntMetric(4),
	}

	stats := Normalize("bob", raw, now, 180)

	want := domain.DifficultyBreakdown{School: 2, Basic: 141, Easy: 30, Medium: 12}
	if stats.Difficulty != want {
		t.Fatalf("unexpected breakdown %+v", stats.Difficulty)
	}
	if stats.TotalSolved != 185 {
		t.Fatalf("expected bucket sum 185 without problemsSolved, got %d", stats.TotalSolved)
	}
	if v, _ := stats.CodingScore.Int(); v != 512 {
		t.Fatalf("unexpected coding score %s", stats.CodingScore)
	}
	if v, _ := stats.Rank.Int(); v != 1024 {
		t.Fatalf("unexpected rank %s", stats.Rank)
	}
	if stats.Streak != (domain.Streak{Current: 4, Longest: 4}) {
		t.Fatalf("unexpected streak %+v", stats.Streak)
	}
	if !stats.Rating.IsNA() || !stats.TotalSubmissions.IsNA() {
		t.Fatal("missing metrics must be NA")
	}
}

func TestNormalizePrefersReportedTotal(t *testing.T) {
	raw := &rawStats{
		Easy:        strPtr("Easy (3)"),
		CodingStats: rawCodingStats{ProblemsSolved: domain.TextMetric("250")},
	}
	stats := Normalize("bob", raw, time.Now(), 180)
	if stats.TotalSolved != 250 {
		t.Fatalf("expected reported total 250, got %d", stats.TotalSolved)
	}
}

func TestNormalizeCalendarUnits(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	day := domain.DayKey(now.Unix())

	for name, key := range map[string]int64{
		"seconds":      day + 60,
		"milliseconds": (day + 60) * 1000,
	} {
		t.Run(name, func(t *testing.T) {
			stats := Normalize("bob", &rawStats{Calendar: domain.RawCalendar{key: 2}}, now, 180)
			if stats.SubmissionCalendar[day] != 2 {
				t.Fatalf("expected entry on %d, got %v", day, stats.SubmissionCalendar)
			}
		})
	}
}

func TestNormalizeKeepsCountryRank(t *testing.T) {
	var raw rawStats
	if err := json.Unmarshal([]byte(`{"globalRank":"99","countryRank":"1234","instituteRank":7}`), &raw); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	stats := Normalize("bob", &raw, time.Now(), 180)
	if v, _ := stats.Rank.Int(); v != 99 {
		t.Fatalf("expected global rank 99, got %s", stats.Rank)
	}
	if v, ok := stats.CountryRank.Int(); !ok || v != 1234 {
		t.Fatalf("expected country rank 1234, got %s", stats.CountryRank)
	}

	empty := Normalize("bob", &rawStats{}, time.Now(), 180)
	if !empty.CountryRank.IsNA() {
		t.Fatalf("missing country rank must be NA, got %s", empty.CountryRank)
	}
}
