package leetcode

import (
	"encoding/json"

	"github.com/kapu/codestats-go/internal/domain"
)

// rawStats is the stats-proxy payload. Counters arrive as numbers or numeric
// strings depending on the proxy deployment, so they decode as metrics.
type rawStats struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	TotalSolved        domain.Metric      `json:"totalSolved"`
	EasySolved         domain.Metric      `json:"easySolved"`
	MediumSolved       domain.Metric      `json:"mediumSolved"`
	HardSolved         domain.Metric      `json:"hardSolved"`
	TotalEasy          domain.Metric      `json:"totalEasy"`
	TotalMedium        domain.Metric      `json:"totalMedium"`
	TotalHard          domain.Metric      `json:"totalHard"`
	TotalActiveDays    domain.Metric      `json:"totalActiveDays"`
	Ranking            domain.Metric      `json:"ranking"`
	ContributionPoint  domain.Metric      `json:"contributionPoint"`
	ContributionPoints domain.Metric      `json:"contributionPoints"`
	Reputation         domain.Metric      `json:"reputation"`
	TotalSubmissions   json.RawMessage    `json:"totalSubmissions"`
	SubmissionCalendar domain.RawCalendar `json:"submissionCalendar"`
	RecentSubmissions  []rawSubmission    `json:"recentSubmissions"`
}

type rawSubmission struct {
	Title         string        `json:"title"`
	StatusDisplay string        `json:"statusDisplay"`
	Lang          string        `json:"lang"`
	Timestamp     domain.Metric `json:"timestamp"`
}

// submissionCount is one entry of the per-difficulty totalSubmissions list.
type submissionCount struct {
	Difficulty  string        `json:"difficulty"`
	Count       domain.Metric `json:"count"`
	Submissions domain.Metric `json:"submissions"`
}
