package gfg

import (
	"regexp"
	"strconv"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
)

var countPattern = regexp.MustCompile(`\((\d+)\)`)

// ParseCount extracts n from a "<Label> (n)" bucket string. Absent or
// malformed labels count as zero.
func ParseCount(label *string) int {
	if label == nil {
		return 0
	}
	match := countPattern.FindStringSubmatch(*label)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// Normalize maps a decoded GFG payload onto the common stats shape.
func Normalize(handle string, raw *rawStats, now time.Time, windowDays int) *domain.NormalizedPlatformStats {
	stats := domain.NewEmptyStats(domain.PlatformGFG, handle)
	if raw == nil {
		return stats
	}

	stats.Difficulty = domain.DifficultyBreakdown{
		School: ParseCount(raw.School),
		Basic:  ParseCount(raw.Basic),
		Easy:   ParseCount(raw.Easy),
		Medium: ParseCount(raw.Medium),
		Hard:   ParseCount(raw.Hard),
	}
	if solved, ok := raw.CodingStats.ProblemsSolved.Int(); ok {
		stats.TotalSolved = int(solved)
	} else {
		stats.TotalSolved = stats.Difficulty.Sum()
	}

	stats.TotalSubmissions = raw.CodingStats.Submissions
	stats.CodingScore = raw.CodingScore
	stats.Rating = raw.ContestRating
	stats.Rank = raw.GlobalRank
	if stats.Rank.IsNA() {
		stats.Rank = raw.InstituteRank
	}
	stats.CountryRank = raw.CountryRank

	current, _ := raw.Streak.Int()
	longest, ok := raw.MaxStreak.Int()
	if !ok || longest < current {
		longest = current
	}
	stats.Streak = domain.Streak{Current: int(current), Longest: int(longest)}

	stats.SubmissionCalendar = domain.FilterCalendar(raw.Calendar, now, windowDays)
	return stats
}
