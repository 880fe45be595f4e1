package domain

import "time"

// BucketPolicy decides how GFG's School/Basic tiers enter cross-platform totals.
type BucketPolicy string

const (
	// BucketPolicySeparate keeps School and Basic as their own totals.
	BucketPolicySeparate BucketPolicy = "separate"
	// BucketPolicyFold adds School and Basic into Easy.
	BucketPolicyFold BucketPolicy = "fold"
)

func ParseBucketPolicy(value string) (BucketPolicy, bool) {
	switch BucketPolicy(value) {
	case BucketPolicySeparate, BucketPolicyFold:
		return BucketPolicy(value), true
	}
	return "", false
}

// Apply maps one platform's breakdown into the totals space of the policy.
func (p BucketPolicy) Apply(d DifficultyBreakdown) DifficultyBreakdown {
	if p == BucketPolicyFold {
		return DifficultyBreakdown{
			Easy:   d.Easy + d.School + d.Basic,
			Medium: d.Medium,
			Hard:   d.Hard,
		}
	}
	return d
}

type SectionStatus string

const (
	SectionOK      SectionStatus = "ok"
	SectionPartial SectionStatus = "partial"
	SectionError   SectionStatus = "error"
)

// ErrorLoadingData is the marker shown on a linked platform whose fetch failed.
const ErrorLoadingData = "error loading data"

// PlatformResult is what one adapter settled with.
type PlatformResult struct {
	Handle string
	Stats  *NormalizedPlatformStats
	Err    error
}

// PlatformSection is one platform's block in the dashboard.
type PlatformSection struct {
	Platform Platform                 `json:"platform"`
	Handle   string                   `json:"handle"`
	Status   SectionStatus            `json:"status"`
	Stats    *NormalizedPlatformStats `json:"stats"`
	Error    string                   `json:"error,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// AggregatedDashboardView is the derived, never-persisted dashboard projection.
type AggregatedDashboardView struct {
	UID              string              `json:"uid"`
	Onboarding       bool                `json:"onboarding"`
	Sections         []PlatformSection   `json:"sections"`
	TotalProblems    int                 `json:"total_problems"`
	DifficultyTotals DifficultyBreakdown `json:"difficulty_totals"`
	BucketPolicy     BucketPolicy        `json:"bucket_policy"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// Section returns the section for platform, if the platform is linked.
func (v *AggregatedDashboardView) Section(platform Platform) (PlatformSection, bool) {
	for _, section := range v.Sections {
		if section.Platform == platform {
			return section, true
		}
	}
	return PlatformSection{}, false
}

// Complete reports whether every linked section loaded (fully or partially).
func (v *AggregatedDashboardView) Complete() bool {
	for _, section := range v.Sections {
		if section.Status == SectionError {
			return false
		}
	}
	return true
}

// Clone deep-copies the view.
func (v *AggregatedDashboardView) Clone() *AggregatedDashboardView {
	if v == nil {
		return nil
	}
	out := *v
	out.Sections = make([]PlatformSection, len(v.Sections))
	for i, section := range v.Sections {
		section.Stats = section.Stats.Clone()
		if section.Warnings != nil {
			section.Warnings = append([]string{}, section.Warnings...)
		}
		out.Sections[i] = section
	}
	return &out
}
