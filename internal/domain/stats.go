package domain

// DifficultyBreakdown counts solved problems per tier. School and Basic are
// GFG-only tiers.
type DifficultyBreakdown struct {
	School int `json:"school"`
	Basic  int `json:"basic"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Sum returns the total across all five tiers.
func (d DifficultyBreakdown) Sum() int {
	return d.School + d.Basic + d.Easy + d.Medium + d.Hard
}

// Add returns the elementwise sum.
func (d DifficultyBreakdown) Add(other DifficultyBreakdown) DifficultyBreakdown {
	return DifficultyBreakdown{
		School: d.School + other.School,
		Basic:  d.Basic + other.Basic,
		Easy:   d.Easy + other.Easy,
		Medium: d.Medium + other.Medium,
		Hard:   d.Hard + other.Hard,
	}
}

// Submission is one entry of a recent-submissions list.
type Submission struct {
	Title     string `json:"title"`
	Verdict   string `json:"verdict"`
	Language  string `json:"language"`
	Timestamp int64  `json:"timestamp"`
}

// RatingChange is one contest in a rating history.
type RatingChange struct {
	ContestID   int64  `json:"contest_id"`
	ContestName string `json:"contest_name"`
	Rank        int    `json:"rank"`
	OldRating   int    `json:"old_rating"`
	NewRating   int    `json:"new_rating"`
	UpdatedAt   int64  `json:"updated_at"`
}

// AvailableProblems is how many problems a platform offers per tier, for
// progress displays. Unknown tiers stay NA.
type AvailableProblems struct {
	Easy   Metric `json:"easy"`
	Medium Metric `json:"medium"`
	Hard   Metric `json:"hard"`
}

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// NormalizedPlatformStats is the common per-platform shape every adapter
// produces. Missing data is always a placeholder, never a nil field.
type NormalizedPlatformStats struct {
	Platform           Platform            `json:"platform"`
	Handle             string              `json:"handle"`
	TotalSolved        int                 `json:"total_solved"`
	TotalSubmissions   Metric              `json:"total_submissions"`
	Difficulty         DifficultyBreakdown `json:"difficulty"`
	Rating             Metric              `json:"rating"`
	MaxRating          Metric              `json:"max_rating"`
	Rank               Metric              `json:"rank"`
	CountryRank        Metric              `json:"country_rank"`
	MaxRank            Metric              `json:"max_rank"`
	Contribution       Metric              `json:"contribution"`
	Reputation         Metric              `json:"reputation"`
	CodingScore        Metric              `json:"coding_score"`
	ActiveDays         Metric              `json:"active_days"`
	SuccessRate        Metric              `json:"success_rate"`
	Available          AvailableProblems   `json:"available"`
	VerdictCounts      map[string]int      `json:"verdict_counts"`
	SubmissionCalendar map[int64]int       `json:"submission_calendar"`
	RecentSubmissions  []Submission        `json:"recent_submissions"`
	RatingHistory      []RatingChange      `json:"rating_history"`
	Streak             Streak              `json:"streak"`
	Warnings           []string            `json:"warnings,omitempty"`
}

// NewEmptyStats is the one constructor of the "no data" shape.
func NewEmptyStats(platform Platform, handle string) *NormalizedPlatformStats {
	return &NormalizedPlatformStats{
		Platform:           platform,
		Handle:             handle,
		SubmissionCalendar: make(map[int64]int),
		VerdictCounts:      make(map[string]int),
		RecentSubmissions:  []Submission{},
		RatingHistory:      []RatingChange{},
	}
}

func (s *NormalizedPlatformStats) AddWarning(warning string) {
	s.Warnings = append(s.Warnings, warning)
}

// Clone returns a deep copy so callers can't mutate a cached view.
func (s *NormalizedPlatformStats) Clone() *NormalizedPlatformStats {
	if s == nil {
		return nil
	}
	out := *s
	out.SubmissionCalendar = make(map[int64]int, len(s.SubmissionCalendar))
	for day, count := range s.SubmissionCalendar {
		out.SubmissionCalendar[day] = count
	}
	out.VerdictCounts = make(map[string]int, len(s.VerdictCounts))
	for verdict, count := range s.VerdictCounts {
		out.VerdictCounts[verdict] = count
	}
	out.RecentSubmissions = append([]Submission{}, s.RecentSubmissions...)
	out.RatingHistory = append([]RatingChange{}, s.RatingHistory...)
	if s.Warnings != nil {
		out.Warnings = append([]string{}, s.Warnings...)
	}
	return &out
}
