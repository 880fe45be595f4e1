package leetcode

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/domain"
)

// Normalize maps a decoded payload onto the common stats shape. It is pure:
// the same raw payload, now and window always give the same result.
func Normalize(handle string, raw *rawStats, now time.Time, windowDays int) *domain.NormalizedPlatformStats {
	stats := domain.NewEmptyStats(domain.PlatformLeetCode, handle)
	if raw == nil {
		return stats
	}

	stats.Difficulty = domain.DifficultyBreakdown{
		Easy:   metricInt(raw.EasySolved),
		Medium: metricInt(raw.MediumSolved),
		Hard:   metricInt(raw.HardSolved),
	}
	if total, ok := raw.TotalSolved.Int(); ok {
		stats.TotalSolved = int(total)
	} else {
		stats.TotalSolved = stats.Difficulty.Sum()
	}

	stats.Available = domain.AvailableProblems{
		Easy:   raw.TotalEasy,
		Medium: raw.TotalMedium,
		Hard:   raw.TotalHard,
	}
	stats.ActiveDays = raw.TotalActiveDays

	stats.Rank = raw.Ranking
	stats.Reputation = raw.Reputation
	stats.Contribution = raw.ContributionPoint
	if stats.Contribution.IsNA() {
		stats.Contribution = raw.ContributionPoints
	}
	stats.TotalSubmissions = totalSubmissions(raw.TotalSubmissions)

	stats.SubmissionCalendar = domain.FilterCalendar(raw.SubmissionCalendar, now, windowDays)
	stats.RecentSubmissions = recentSubmissions(raw.RecentSubmissions)

	return stats
}

// totalSubmissions accepts either a plain count or the per-difficulty list,
// in which case the "All" entry wins.
func totalSubmissions(data json.RawMessage) domain.Metric {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Metric{}
	}

	if data[0] == '[' {
		var counts []submissionCount
		if err := json.Unmarshal(data, &counts); err != nil {
			return domain.Metric{}
		}
		var sum int64
		found := false
		for _, entry := range counts {
			submissions, ok := entry.Submissions.Int()
			if !ok {
				continue
			}
			if strings.EqualFold(entry.Difficulty, "All") {
				return domain.IntMetric(submissions)
			}
			sum += submissions
			found = true
		}
		if !found {
			return domain.Metric{}
		}
		return domain.IntMetric(sum)
	}

	var metric domain.Metric
	if err := json.Unmarshal(data, &metric); err != nil {
		return domain.Metric{}
	}
	return metric
}

func recentSubmissions(raw []rawSubmission) []domain.Submission {
	submissions := make([]domain.Submission, 0, len(raw))
	for _, entry := range raw {
		ts, _ := entry.Timestamp.Int()
		submissions = append(submissions, domain.Submission{
			Title:     entry.Title,
			Verdict:   entry.StatusDisplay,
			Language:  entry.Lang,
			Timestamp: domain.NormalizeTimestamp(ts),
		})
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].Timestamp > submissions[j].Timestamp
	})
	if limit := constants.Dashboard.RecentSubmissionsLimit; len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions
}

func metricInt(m domain.Metric) int {
	v, _ := m.Int()
	return int(v)
}
