package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liscraper/pkg/config"
	"liscraper/pkg/linkedin"
)

// newTestScraper builds a Scraper over a fake page with settle intervals
// collapsed so suites stay fast.
func newTestScraper(t *testing.T, page *fakePage, mutate func(*config.Config)) *Scraper {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Scraper.ScrollCount = 2
	cfg.Scraper.ScrollPause = time.Microsecond
	cfg.Scraper.PageSettle = time.Microsecond
	cfg.Scraper.RenderSettle = time.Microsecond
	cfg.Scraper.CommentSettle = time.Microsecond
	cfg.Scraper.ExpandWait = 0
	if mutate != nil {
		mutate(cfg)
	}
	return New(page, cfg)
}

type fakeSink struct {
	saved    []*linkedin.FeedScrapeResult
	names    []string
	failWith error
}

func (f *fakeSink) Save(result *linkedin.FeedScrapeResult, name string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.saved = append(f.saved, result)
	f.names = append(f.names, name)
	return nil
}

func TestNormalizeCompanyURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantURL  string
		wantSlug string
	}{
		{
			name:     "bare company page",
			input:    "https://www.linkedin.com/company/acme",
			wantURL:  "https://www.linkedin.com/company/acme/posts",
			wantSlug: "acme",
		},
		{
			name:     "trailing slash",
			input:    "https://www.linkedin.com/company/acme/",
			wantURL:  "https://www.linkedin.com/company/acme/posts",
			wantSlug: "acme",
		},
		{
			name:     "already a posts page",
			input:    "https://www.linkedin.com/company/acme/posts",
			wantURL:  "https://www.linkedin.com/company/acme/posts",
			wantSlug: "acme",
		},
		{
			name:     "posts page with trailing slash",
			input:    "https://www.linkedin.com/company/acme/posts/",
			wantURL:  "https://www.linkedin.com/company/acme/posts",
			wantSlug: "acme",
		},
		{
			name:     "surrounding whitespace",
			input:    "  https://www.linkedin.com/company/big-corp  ",
			wantURL:  "https://www.linkedin.com/company/big-corp/posts",
			wantSlug: "big-corp",
		},
		{
			name:     "no company segment",
			input:    "https://www.linkedin.com/feed",
			wantURL:  "https://www.linkedin.com/feed/posts",
			wantSlug: "company",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, slug := NormalizeCompanyURL(tt.input)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}
}

func TestScrapeRequiresAuthentication(t *testing.T) {
	page := newFakePage()
	page.authenticated = false

	s := newTestScraper(t, page, nil)
	result, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Nil(t, result)
}

func TestScrapeCompanyPosts(t *testing.T) {
	page := newFakePage(1000, 1000)
	for i := 0; i < 3; i++ {
		post := addPost(page, "feed-shared-update-v2")
		page.add(post, "span", map[string]string{"class": "break-words"}, fmt.Sprintf("post %d", i))
		page.add(post, "span", map[string]string{"class": "social-details-social-counts__reactions-count"}, fmt.Sprintf("%d reactions", (i+1)*10))
	}

	sink := &fakeSink{}
	s := newTestScraper(t, page, nil)
	s.SetSink(sink)

	result, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme/")
	require.NoError(t, err)

	assert.Equal(t, "acme", result.CompanyName)
	assert.Equal(t, "https://www.linkedin.com/company/acme/posts", result.SourceURL)
	assert.Equal(t, []string{"https://www.linkedin.com/company/acme/posts"}, page.navigated)

	require.Len(t, result.Posts, 3)
	for i, post := range result.Posts {
		assert.Equal(t, fmt.Sprintf("post %d", i), post.PostText)
		assert.Equal(t, fmt.Sprintf("%d", (i+1)*10), post.Likes)
		assert.Equal(t, "0", post.Comments)
		assert.Equal(t, []linkedin.CommentRecord{}, post.TopComments)
	}

	require.Len(t, sink.names, 1)
	assert.Regexp(t, regexp.MustCompile(`^acme_posts_\d{8}_\d{6}\.json$`), sink.names[0])
	assert.Same(t, result, sink.saved[0])
}

func TestScrapeSkipsVanishedPost(t *testing.T) {
	page := newFakePage(1000, 1000)

	first := addPost(page, "feed-shared-update-v2")
	page.add(first, "span", map[string]string{"class": "break-words"}, "stable")

	doomed := addPost(page, "feed-shared-update-v2")
	page.add(doomed, "span", map[string]string{"class": "break-words"}, "about to vanish")

	last := addPost(page, "feed-shared-update-v2")
	page.add(last, "span", map[string]string{"class": "break-words"}, "still here")

	// Expanding the first post re-renders the feed and drops the second.
	toggle := page.add(first, "button", map[string]string{"class": "feed-shared-inline-show-more-text__see-more-less-toggle"}, "see more")
	toggle.onClick = func() {
		page.remove(doomed)
	}

	s := newTestScraper(t, page, nil)
	result, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme")
	require.NoError(t, err)

	require.Len(t, result.Posts, 2)
	assert.Equal(t, "stable", result.Posts[0].PostText)
	assert.Equal(t, "still here", result.Posts[1].PostText)
}

func TestScrapeNavigationFailureKeepsResultShell(t *testing.T) {
	page := newFakePage()
	page.navErr = errors.New("connection reset")

	s := newTestScraper(t, page, nil)
	result, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme")

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "acme", result.CompanyName)
	assert.Empty(t, result.Posts)
}

func TestScrapeAutoSaveDisabled(t *testing.T) {
	page := newFakePage(1000, 1000)
	addPost(page, "feed-shared-update-v2")

	sink := &fakeSink{}
	s := newTestScraper(t, page, func(cfg *config.Config) {
		cfg.Output.AutoSave = false
	})
	s.SetSink(sink)

	_, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme")
	require.NoError(t, err)
	assert.Empty(t, sink.names)
}

func TestScrapeSinkFailureReturnsPosts(t *testing.T) {
	page := newFakePage(1000, 1000)
	addPost(page, "feed-shared-update-v2")

	sink := &fakeSink{failWith: errors.New("disk full")}
	s := newTestScraper(t, page, nil)
	s.SetSink(sink)

	result, err := s.ScrapeCompanyPosts("https://www.linkedin.com/company/acme")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Posts, 1)
}
