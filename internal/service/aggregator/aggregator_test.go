package aggregator

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/pkg/errors"
)

var generatedAt = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func statsWith(platform domain.Platform, handle string, difficulty domain.DifficultyBreakdown) *domain.NormalizedPlatformStats {
	stats := domain.NewEmptyStats(platform, handle)
	stats.Difficulty = difficulty
	stats.TotalSolved = difficulty.Sum()
	return stats
}

func fullResults() map[domain.Platform]domain.PlatformResult {
	return map[domain.Platform]domain.PlatformResult{
		domain.PlatformCodeForces: {
			Handle: "alice_cf",
			Stats:  statsWith(domain.PlatformCodeForces, "alice_cf", domain.DifficultyBreakdown{Easy: 5, Medium: 3, Hard: 1}),
		},
		domain.PlatformLeetCode: {
			Handle: "alice",
			Stats:  statsWith(domain.PlatformLeetCode, "alice", domain.DifficultyBreakdown{Easy: 60, Medium: 50, Hard: 10}),
		},
		domain.PlatformGFG: {
			Handle: "alice_gfg",
			Stats:  statsWith(domain.PlatformGFG, "alice_gfg", domain.DifficultyBreakdown{School: 2, Basic: 8, Easy: 10}),
		},
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	results := fullResults()

	first := Aggregate("uid-1", results, domain.BucketPolicySeparate, generatedAt)
	second := Aggregate("uid-1", results, domain.BucketPolicySeparate, generatedAt)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("aggregating the same input twice must give the same view")
	}
}

func TestAggregateCanonicalOrderAndTotals(t *testing.T) {
	view := Aggregate("uid-1", fullResults(), domain.BucketPolicySeparate, generatedAt)

	order := make([]domain.Platform, 0, len(view.Sections))
	for _, section := range view.Sections {
		order = append(order, section.Platform)
	}
	if !reflect.DeepEqual(order, domain.CanonicalPlatforms) {
		t.Fatalf("unexpected section order %v", order)
	}

	if view.TotalProblems != 149 {
		t.Fatalf("expected 149 total problems, got %d", view.TotalProblems)
	}
	want := domain.DifficultyBreakdown{School: 2, Basic: 8, Easy: 75, Medium: 53, Hard: 11}
	if view.DifficultyTotals != want {
		t.Fatalf("unexpected totals %+v", view.DifficultyTotals)
	}
}

func TestAggregateFoldPolicy(t *testing.T) {
	view := Aggregate("uid-1", fullResults(), domain.BucketPolicyFold, generatedAt)

	want := domain.DifficultyBreakdown{Easy: 85, Medium: 53, Hard: 11}
	if view.DifficultyTotals != want {
		t.Fatalf("unexpected folded totals %+v", view.DifficultyTotals)
	}
	if view.DifficultyTotals.Sum() != view.TotalProblems {
		t.Fatalf("folded buckets should still add up to %d", view.TotalProblems)
	}
}

func TestAggregateExcludesErroredPlatform(t *testing.T) {
	results := fullResults()
	results[domain.PlatformGFG] = domain.PlatformResult{
		Handle: "alice_gfg",
		Err:    errors.NewPlatformError("gfg", fmt.Errorf("timeout")),
	}

	view := Aggregate("uid-1", results, domain.BucketPolicySeparate, generatedAt)

	gfg, ok := view.Section(domain.PlatformGFG)
	if !ok {
		t.Fatal("errored platform must still have a section")
	}
	if gfg.Status != domain.SectionError || gfg.Error != domain.ErrorLoadingData {
		t.Fatalf("expected error marker, got %+v", gfg)
	}
	if gfg.Stats == nil || gfg.Stats.SubmissionCalendar == nil || !gfg.Stats.CodingScore.IsNA() {
		t.Fatal("errored section should carry placeholder stats")
	}

	lc := results[domain.PlatformLeetCode].Stats.TotalSolved
	cf := results[domain.PlatformCodeForces].Stats.TotalSolved
	if view.TotalProblems != lc+cf {
		t.Fatalf("expected %d, got %d", lc+cf, view.TotalProblems)
	}
	if view.DifficultyTotals.School != 0 || view.DifficultyTotals.Basic != 0 {
		t.Fatal("gfg buckets must not leak into totals")
	}
	if view.Complete() {
		t.Fatal("a view with an errored section is not complete")
	}
}

func TestAggregateCountsPartialPlatform(t *testing.T) {
	results := fullResults()
	cf := results[domain.PlatformCodeForces]
	cf.Stats.AddWarning("submissions unavailable")
	cf.Err = errors.NewPartialPlatformError("codeforces", []string{"user.status"}, fmt.Errorf("503"))
	results[domain.PlatformCodeForces] = cf

	view := Aggregate("uid-1", results, domain.BucketPolicySeparate, generatedAt)

	section, _ := view.Section(domain.PlatformCodeForces)
	if section.Status != domain.SectionPartial {
		t.Fatalf("expected partial status, got %s", section.Status)
	}
	if len(section.Warnings) != 1 {
		t.Fatalf("expected warning to surface, got %v", section.Warnings)
	}
	if view.TotalProblems != 149 {
		t.Fatalf("partial sections are counted, got %d", view.TotalProblems)
	}
	if !view.Complete() {
		t.Fatal("partial sections do not make a view incomplete")
	}
}

func TestAggregateSingleLinkedPlatform(t *testing.T) {
	only := statsWith(domain.PlatformLeetCode, "alice", domain.DifficultyBreakdown{Easy: 4, Medium: 2})
	results := map[domain.Platform]domain.PlatformResult{
		domain.PlatformLeetCode: {Handle: "alice", Stats: only},
	}

	view := Aggregate("uid-1", results, domain.BucketPolicySeparate, generatedAt)

	if len(view.Sections) != 1 {
		t.Fatalf("expected exactly one section, got %d", len(view.Sections))
	}
	if view.TotalProblems != only.TotalSolved || view.DifficultyTotals != only.Difficulty {
		t.Fatalf("totals must equal the single platform's, got %+v", view)
	}
	for _, section := range view.Sections {
		if section.Status == domain.SectionError {
			t.Fatal("unlinked platforms never show error markers")
		}
	}
}

func TestAggregateNoLinkedPlatforms(t *testing.T) {
	view := Aggregate("uid-1", nil, "", generatedAt)
	if len(view.Sections) != 0 || view.TotalProblems != 0 {
		t.Fatalf("expected an empty view, got %+v", view)
	}
	if view.BucketPolicy != domain.BucketPolicySeparate {
		t.Fatalf("expected default policy, got %s", view.BucketPolicy)
	}
}
