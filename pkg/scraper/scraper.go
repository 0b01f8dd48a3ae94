// Package scraper implements the feed-extraction pipeline: the scroll-driven
// pagination loop, per-post extraction, comment pagination, and the
// failure-isolation policy that keeps one malformed post from aborting a run.
package scraper

import (
	"fmt"
	"strings"
	"time"

	"liscraper/pkg/config"
	"liscraper/pkg/linkedin"
	"liscraper/pkg/logger"
)

// Sink receives the assembled result when auto-save is enabled.
type Sink interface {
	Save(result *linkedin.FeedScrapeResult, name string) error
}

// Scraper orchestrates one browser session through a company's posts page.
// It is strictly sequential: the session is a single shared mutable resource
// and concurrent extraction would race against in-flight page scripts.
type Scraper struct {
	session Session
	cfg     *config.Config
	logger  logger.Logger
	sink    Sink
}

// New creates a Scraper over an already-authenticated session.
func New(session Session, cfg *config.Config) *Scraper {
	return &Scraper{
		session: session,
		cfg:     cfg,
		logger:  logger.GetLogger(),
	}
}

// SetSink installs the output sink used when auto-save is enabled.
func (s *Scraper) SetSink(sink Sink) {
	s.sink = sink
}

// NormalizeCompanyURL canonicalizes a company page URL to its posts listing
// and derives the company slug from the /company/ path segment.
func NormalizeCompanyURL(rawURL string) (normalized, slug string) {
	normalized = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if !strings.HasSuffix(normalized, "/posts") {
		normalized += "/posts"
	}

	slug = "company"
	if _, rest, ok := strings.Cut(normalized, "/company/"); ok {
		if name, _, _ := strings.Cut(rest, "/"); name != "" {
			slug = name
		}
	}
	return normalized, slug
}

// ScrapeCompanyPosts runs the pipeline: scroll the feed, extract each
// discovered post, assemble the report, and hand it to the sink when
// auto-save is on. Per-post failures are logged and skipped; posts
// accumulated before a run-level fault are returned alongside the error.
func (s *Scraper) ScrapeCompanyPosts(companyURL string) (*linkedin.FeedScrapeResult, error) {
	if s.session == nil || !s.session.Authenticated() {
		return nil, ErrNotLoggedIn
	}

	url, slug := NormalizeCompanyURL(companyURL)
	result := &linkedin.FeedScrapeResult{
		CompanyName: slug,
		Timestamp:   time.Now().Format("20060102_150405"),
		SourceURL:   url,
		Posts:       []linkedin.PostRecord{},
	}

	s.logger.WithFields(map[string]interface{}{
		"company": slug,
		"url":     url,
	}).Info("Starting feed scrape")

	if err := s.session.Navigate(url); err != nil {
		return result, fmt.Errorf("failed to open company posts page: %w", err)
	}
	time.Sleep(s.cfg.Scraper.PageSettle)

	posts, err := s.collectPostElements()
	if err != nil {
		return result, fmt.Errorf("feed pagination failed: %w", err)
	}
	s.logger.WithFields(map[string]interface{}{
		"company": slug,
		"posts":   len(posts),
	}).Info("Discovered feed posts")

	for idx, post := range posts {
		record, err := s.extractPostSafe(post)
		if err != nil {
			s.logger.WithError(err).WithField("post", idx+1).Warn("Skipping post")
			continue
		}
		result.Posts = append(result.Posts, *record)
		s.logger.WithFields(map[string]interface{}{
			"post":     idx + 1,
			"likes":    record.Likes,
			"comments": record.Comments,
			"shares":   record.Shares,
			"images":   len(record.ImageURLs),
			"videos":   len(record.VideoURLs),
		}).Debug("Post extracted")
	}

	s.logger.WithFields(map[string]interface{}{
		"company":    slug,
		"discovered": len(posts),
		"processed":  len(result.Posts),
	}).Info("Feed scrape complete")

	if s.cfg.Output.AutoSave && s.sink != nil {
		name := fmt.Sprintf("%s_posts_%s.json", slug, result.Timestamp)
		if err := s.sink.Save(result, name); err != nil {
			return result, fmt.Errorf("failed to save result: %w", err)
		}
		s.logger.WithField("file", name).Info("Result saved")
	}

	return result, nil
}
