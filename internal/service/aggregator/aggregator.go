package aggregator

import (
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
)

// Aggregate merges settled adapter results into one dashboard view. Every
// platform present in results is linked and gets a section, in canonical
// order. Errored sections show placeholders and stay out of the totals;
// partial ones are counted.
func Aggregate(uid string, results map[domain.Platform]domain.PlatformResult, policy domain.BucketPolicy, now time.Time) domain.AggregatedDashboardView {
	if policy == "" {
		policy = domain.BucketPolicySeparate
	}

	view := domain.AggregatedDashboardView{
		UID:          uid,
		Sections:     make([]domain.PlatformSection, 0, len(results)),
		BucketPolicy: policy,
		GeneratedAt:  now,
	}

	for _, platform := range domain.CanonicalPlatforms {
		result, linked := results[platform]
		if !linked {
			continue
		}

		section := BuildSection(platform, result)
		view.Sections = append(view.Sections, section)

		if section.Status == domain.SectionError {
			continue
		}
		view.TotalProblems += section.Stats.TotalSolved
		view.DifficultyTotals = view.DifficultyTotals.Add(policy.Apply(section.Stats.Difficulty))
	}

	return view
}

// BuildSection classifies one adapter result. It is also used to stream
// sections before the totals are known.
func BuildSection(platform domain.Platform, result domain.PlatformResult) domain.PlatformSection {
	section := domain.PlatformSection{
		Platform: platform,
		Handle:   result.Handle,
	}

	switch {
	case result.Err == nil && result.Stats != nil:
		section.Status = domain.SectionOK
		section.Stats = result.Stats
	case result.Err != nil && errors.IsPartial(result.Err) && result.Stats != nil:
		section.Status = domain.SectionPartial
		section.Stats = result.Stats
	default:
		section.Status = domain.SectionError
		section.Stats = domain.NewEmptyStats(platform, result.Handle)
		section.Error = domain.ErrorLoadingData
	}

	if len(section.Stats.Warnings) > 0 {
		section.Warnings = append([]string{}, section.Stats.Warnings...)
	}
	return section
}
