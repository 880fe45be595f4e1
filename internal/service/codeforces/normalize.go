package codeforces

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kapu/codestats-go/internal/constants"
	"github.com/kapu/codestats-go/internal/domain"
)

type tier int

const (
	tierUnrated tier = iota
	tierEasy
	tierMedium
	tierHard
)

// classify buckets a problem rating. Zero or negative means unrated.
func (t Thresholds) classify(rating int) tier {
	switch {
	case rating <= 0:
		return tierUnrated
	case rating <= t.EasyMax:
		return tierEasy
	case rating <= t.MediumMax:
		return tierMedium
	default:
		return tierHard
	}
}

// problemKey identifies a problem across submissions. Problems outside a
// contest are keyed by their problemset.
func problemKey(p rawProblem) string {
	if p.ContestID != 0 {
		return fmt.Sprintf("%d-%s", p.ContestID, p.Index)
	}
	return fmt.Sprintf("%s-%s", p.ProblemsetName, p.Index)
}

// Normalize builds stats from whichever of the three responses are present;
// a nil part leaves its fields as placeholders.
func Normalize(handle string, info *rawUser, submissions []rawSubmission, ratings []rawRatingChange,
	thresholds Thresholds, now time.Time, windowDays int) *domain.NormalizedPlatformStats {
	stats := domain.NewEmptyStats(domain.PlatformCodeForces, handle)

	if info != nil {
		stats.Rating = info.Rating
		stats.MaxRating = info.MaxRating
		stats.Rank = info.Rank
		stats.MaxRank = info.MaxRank
		stats.Contribution = info.Contribution
	}

	if submissions != nil {
		applySubmissions(stats, submissions, thresholds, now, windowDays)
	}

	if ratings != nil {
		stats.RatingHistory = ratingHistory(ratings)
		if n := len(stats.RatingHistory); n > 0 {
			if stats.Rating.IsNA() {
				stats.Rating = domain.IntMetric(int64(stats.RatingHistory[n-1].NewRating))
			}
			if stats.MaxRating.IsNA() {
				best := 0
				for _, change := range stats.RatingHistory {
					if change.NewRating > best {
						best = change.NewRating
					}
				}
				stats.MaxRating = domain.IntMetric(int64(best))
			}
		}
	}

	return stats
}

func applySubmissions(stats *domain.NormalizedPlatformStats, submissions []rawSubmission,
	thresholds Thresholds, now time.Time, windowDays int) {
	solved := make(map[string]rawProblem)
	calendar := make(map[int64]int)
	acceptedDays := make([]int64, 0)

	for _, sub := range submissions {
		calendar[sub.CreationTimeSeconds]++
		if sub.Verdict != "" {
			stats.VerdictCounts[sub.Verdict]++
		}
		if sub.Verdict != verdictOK {
			continue
		}
		acceptedDays = append(acceptedDays, domain.DayKey(sub.CreationTimeSeconds))
		key := problemKey(sub.Problem)
		if _, seen := solved[key]; !seen {
			solved[key] = sub.Problem
		}
	}

	for _, problem := range solved {
		switch thresholds.classify(problem.Rating) {
		case tierEasy:
			stats.Difficulty.Easy++
		case tierMedium:
			stats.Difficulty.Medium++
		case tierHard:
			stats.Difficulty.Hard++
		}
	}

	stats.TotalSolved = len(solved)
	stats.TotalSubmissions = domain.IntMetric(int64(len(submissions)))
	stats.SuccessRate = successRate(stats.VerdictCounts[verdictOK], len(submissions))
	stats.SubmissionCalendar = domain.FilterCalendar(calendar, now, windowDays)
	stats.Streak = ComputeStreak(acceptedDays, domain.DayKey(now.Unix()))
	stats.RecentSubmissions = recentSubmissions(submissions)
}

// successRate is the accepted share of all submissions as a percentage with
// one decimal, NA when there are no submissions.
func successRate(accepted, total int) domain.Metric {
	if total == 0 {
		return domain.Metric{}
	}
	return domain.FloatMetric(math.Round(float64(accepted)*1000/float64(total)) / 10)
}

// ComputeStreak returns the longest run of consecutive days and the run
// ending today or yesterday. days are UTC day keys, in any order, with
// duplicates allowed.
func ComputeStreak(days []int64, today int64) domain.Streak {
	if len(days) == 0 {
		return domain.Streak{}
	}

	unique := make(map[int64]struct{}, len(days))
	for _, day := range days {
		unique[day] = struct{}{}
	}
	sorted := make([]int64, 0, len(unique))
	for day := range unique {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == domain.SecondsPerDay {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	last := sorted[len(sorted)-1]
	if last == today || last == today-domain.SecondsPerDay {
		current = run
	}

	return domain.Streak{Current: current, Longest: longest}
}

func recentSubmissions(submissions []rawSubmission) []domain.Submission {
	ordered := make([]rawSubmission, len(submissions))
	copy(ordered, submissions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreationTimeSeconds > ordered[j].CreationTimeSeconds
	})

	limit := constants.Dashboard.RecentSubmissionsLimit
	if len(ordered) < limit {
		limit = len(ordered)
	}

	recent := make([]domain.Submission, 0, limit)
	for _, sub := range ordered[:limit] {
		title := sub.Problem.Name
		if title == "" {
			title = problemKey(sub.Problem)
		}
		recent = append(recent, domain.Submission{
			Title:     title,
			Verdict:   sub.Verdict,
			Language:  sub.ProgrammingLanguage,
			Timestamp: sub.CreationTimeSeconds,
		})
	}
	return recent
}

func ratingHistory(ratings []rawRatingChange) []domain.RatingChange {
	history := make([]domain.RatingChange, 0, len(ratings))
	for _, change := range ratings {
		history = append(history, domain.RatingChange{
			ContestID:   change.ContestID,
			ContestName: change.ContestName,
			Rank:        change.Rank,
			OldRating:   change.OldRating,
			NewRating:   change.NewRating,
			UpdatedAt:   change.RatingUpdateTimeSeconds,
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].UpdatedAt < history[j].UpdatedAt
	})
	return history
}
