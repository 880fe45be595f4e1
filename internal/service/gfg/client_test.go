package gfg

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kapu/codestats-go/internal/service/httpclient"
	"github.com/kapu/codestats-go/pkg/errors"
	"go.uber.org/zap"
)

const profilePage = `<html><body>
<div class="header"><span>Coding Score</span><span>640</span></div>
<div class="header"><span>Problem Solved</span><span>96</span></div>
<ul class="tabs">
  <li><a>SCHOOL (1)</a></li>
  <li><a>BASIC (20)</a></li>
  <li><a>EASY (40)</a></li>
  <li><a>MEDIUM (30)</a></li>
  <li><a>HARD (5)</a></li>
</ul>
</body></html>`

func newRequester(url string) *httpclient.Client {
	return httpclient.New(httpclient.Config{Name: "gfg", BaseURL: url}, zap.NewNop())
}

func TestFetchStatsFromAPI(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "bob" {
			t.Errorf("expected username query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"username": "bob",
			"codingScore": "512",
			"globalRank": 1024,
			"contestRating": "NA",
			"codingStats": {"problemsSolved": 185, "submissions": "400"},
			"school": "School (2)",
			"basic": "Basic (141)",
			"easy": "Easy (30)",
			"medium": "Medium (12)",
			"hard": "Hard ()"
		}`))
	}))
	defer api.Close()

	client := NewClient(newRequester(api.URL), nil, 180, zap.NewNop())
	stats, err := client.FetchStats(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalSolved != 185 || stats.Difficulty.Basic != 141 || stats.Difficulty.Hard != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !stats.Rating.IsNA() {
		t.Fatal("\"NA\" rating should stay NA")
	}
	if len(stats.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", stats.Warnings)
	}
}

func TestFetchStatsFallsBackToProfilePage(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bob/" {
			t.Errorf("unexpected profile path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(profilePage))
	}))
	defer page.Close()

	scraper := NewProfileScraper(newRequester(page.URL), zap.NewNop())
	client := NewClient(newRequester(api.URL), scraper, 180, zap.NewNop())
	client.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	stats, err := client.FetchStats(context.Background(), "bob")
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if stats.Difficulty.School != 1 || stats.Difficulty.Basic != 20 || stats.Difficulty.Easy != 40 ||
		stats.Difficulty.Medium != 30 || stats.Difficulty.Hard != 5 {
		t.Fatalf("unexpected breakdown %+v", stats.Difficulty)
	}
	if v, _ := stats.CodingScore.Int(); v != 640 {
		t.Fatalf("unexpected coding score %s", stats.CodingScore)
	}
	if stats.TotalSolved != 96 {
		t.Fatalf("expected scraped total 96, got %d", stats.TotalSolved)
	}
	if len(stats.Warnings) != 1 {
		t.Fatalf("expected fallback warning, got %v", stats.Warnings)
	}
}

func TestFetchStatsErrorWithoutFallback(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Profile not found"}`))
	}))
	defer api.Close()

	client := NewClient(newRequester(api.URL), nil, 180, zap.NewNop())
	_, err := client.FetchStats(context.Background(), "ghost")

	var platformErr *errors.PlatformError
	if !stderrors.As(err, &platformErr) || platformErr.Platform != "gfg" {
		t.Fatalf("expected gfg PlatformError, got %v", err)
	}
}
