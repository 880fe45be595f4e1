package gfg

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/service/httpclient"
	"go.uber.org/zap"
)

var (
	bucketPattern      = regexp.MustCompile(`(?i)\b(school|basic|easy|medium|hard)\s*\((\d+)\)`)
	codingScorePattern = regexp.MustCompile(`(?i)coding\s*score\D{0,20}?(\d+)`)
	solvedPattern      = regexp.MustCompile(`(?i)problems?\s*solved\D{0,20}?(\d+)`)
)

// ProfileScraper reads difficulty counts off the public profile page. It is
// the fallback for when the JSON proxy is down.
type ProfileScraper struct {
	requester httpclient.Requester
	logger    *zap.Logger
}

func NewProfileScraper(requester httpclient.Requester, logger *zap.Logger) *ProfileScraper {
	return &ProfileScraper{
		requester: requester,
		logger:    logger,
	}
}

// Scrape returns the profile page data in the proxy's raw shape.
func (s *ProfileScraper) Scrape(ctx context.Context, handle string) (*rawStats, error) {
	s.logger.Info("Fetching GFG profile page (FALLBACK MODE)", zap.String("handle", handle))

	body, err := s.requester.Get(ctx, "/"+url.PathEscape(handle)+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("profile page request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	raw := parseProfileDocument(doc)
	if raw == nil {
		return nil, fmt.Errorf("no difficulty data on profile page for %q", handle)
	}

	s.logger.Info("GFG profile page scraped", zap.String("handle", handle))
	return raw, nil
}

// parseProfileDocument walks leaf text nodes and picks up the first
// occurrence of each bucket label and score. Nil means nothing was found.
func parseProfileDocument(doc *goquery.Document) *rawStats {
	raw := &rawStats{}
	found := false

	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}

		for _, match := range bucketPattern.FindAllStringSubmatch(text, -1) {
			label := match[0]
			var slot **string
			switch strings.ToLower(match[1]) {
			case "school":
				slot = &raw.School
			case "basic":
				slot = &raw.Basic
			case "easy":
				slot = &raw.Easy
			case "medium":
				slot = &raw.Medium
			case "hard":
				slot = &raw.Hard
			}
			if slot != nil && *slot == nil {
				*slot = &label
				found = true
			}
		}
	})

	// Scores sit in sibling elements of their captions, so match on the
	// flattened page text.
	pageText := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if match := codingScorePattern.FindStringSubmatch(pageText); match != nil {
		if n, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			raw.CodingScore = domain.IntMetric(n)
			found = true
		}
	}
	if match := solvedPattern.FindStringSubmatch(pageText); match != nil {
		if n, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			raw.CodingStats.ProblemsSolved = domain.IntMetric(n)
		}
	}

	if !found {
		return nil
	}
	return raw
}
