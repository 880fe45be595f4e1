package codeforces

import (
	"encoding/json"

	"github.com/kapu/codestats-go/internal/domain"
)

const (
	statusOK     = "OK"
	statusFailed = "FAILED"
	verdictOK    = "OK"
)

// envelope wraps every CodeForces API response.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type rawUser struct {
	Handle       string        `json:"handle"`
	Rating       domain.Metric `json:"rating"`
	MaxRating    domain.Metric `json:"maxRating"`
	Rank         domain.Metric `json:"rank"`
	MaxRank      domain.Metric `json:"maxRank"`
	Contribution domain.Metric `json:"contribution"`
}

type rawProblem struct {
	ContestID      int64  `json:"contestId"`
	ProblemsetName string `json:"problemsetName"`
	Index          string `json:"index"`
	Name           string `json:"name"`
	Rating         int    `json:"rating"`
}

type rawSubmission struct {
	ID                  int64      `json:"id"`
	ContestID           int64      `json:"contestId"`
	CreationTimeSeconds int64      `json:"creationTimeSeconds"`
	Problem             rawProblem `json:"problem"`
	ProgrammingLanguage string     `json:"programmingLanguage"`
	Verdict             string     `json:"verdict"`
}

type rawRatingChange struct {
	ContestID               int64  `json:"contestId"`
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

// Thresholds buckets problems by rating: <= EasyMax easy, <= MediumMax
// medium, above that hard.
type Thresholds struct {
	EasyMax   int
	MediumMax int
}
