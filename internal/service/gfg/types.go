package gfg

import "github.com/kapu/codestats-go/internal/domain"

// rawStats is the GFG stats-proxy payload. Difficulty buckets are labels of
// the form "Basic (141)".
type rawStats struct {
	Error string `json:"error"`

	Username      string             `json:"username"`
	GlobalRank    domain.Metric      `json:"globalRank"`
	CountryRank   domain.Metric      `json:"countryRank"`
	InstituteRank domain.Metric      `json:"instituteRank"`
	CodingScore   domain.Metric      `json:"codingScore"`
	ContestRating domain.Metric      `json:"contestRating"`
	Streak        domain.Metric      `json:"streak"`
	MaxStreak     domain.Metric      `json:"maxStreak"`
	CodingStats   rawCodingStats     `json:"codingStats"`
	School        *string            `json:"school"`
	Basic         *string            `json:"basic"`
	Easy          *string            `json:"easy"`
	Medium        *string            `json:"medium"`
	Hard          *string            `json:"hard"`
	Calendar      domain.RawCalendar `json:"submissionCalendar"`
}

type rawCodingStats struct {
	ProblemsSolved domain.Metric `json:"problemsSolved"`
	Submissions    domain.Metric `json:"submissions"`
}
