package scraper

import (
	"fmt"
	"strings"
	"time"

	"liscraper/pkg/linkedin"
)

// extractPost turns one post element into a PostRecord. Every field degrades
// to its default when it cannot be read; the only way extraction fails is the
// element itself vanishing before any data could be read, in which case the
// caller skips the post.
func (s *Scraper) extractPost(post ElementHandle) (*linkedin.PostRecord, error) {
	if err := s.session.ScrollIntoView(post); err != nil {
		return nil, fmt.Errorf("post element stale before extraction: %w", err)
	}
	time.Sleep(s.cfg.Scraper.RenderSettle)

	// Expand truncated text. Absence or timeout of the toggle is normal.
	if toggle, err := s.session.FindOne(post, selSeeMore, s.cfg.Scraper.ExpandWait); err == nil {
		if err := s.session.Click(toggle); err == nil {
			time.Sleep(s.cfg.Scraper.RenderSettle)
		}
	}

	record := &linkedin.PostRecord{
		PostText:    linkedin.UnextractableText,
		Likes:       "0",
		Comments:    "0",
		Shares:      "0",
		ImageURLs:   []string{},
		VideoURLs:   []string{},
		TopComments: []linkedin.CommentRecord{},
	}

	if body, err := s.session.FindOne(post, selPostBody, 0); err == nil {
		if text, err := s.session.Text(body); err == nil {
			record.PostText = strings.TrimSpace(text)
		}
	}

	if likeEls := s.session.FindAll(post, selReactions); len(likeEls) > 0 {
		if v, err := s.session.Text(likeEls[0]); err == nil {
			record.Likes = linkedin.DigitRun(v)
		}
	}

	// Classify the aria-hidden count spans by substring. The page can render
	// more than one span per kind; the last match wins for each field.
	for _, span := range s.session.FindAll(post, selHiddenCounts) {
		v, err := s.session.Text(span)
		if err != nil {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(v))
		switch {
		case strings.Contains(lower, "comment"):
			record.Comments = linkedin.DigitRun(lower)
		case strings.Contains(lower, "share"), strings.Contains(lower, "repost"):
			record.Shares = linkedin.DigitRun(lower)
		}
	}

	if urls := s.extractMedia(post, "img", imageClasses); urls != nil {
		record.ImageURLs = urls
	}
	if urls := s.extractMedia(post, "video", videoClasses); urls != nil {
		record.VideoURLs = urls
	}
	if comments := s.extractComments(post); comments != nil {
		record.TopComments = comments
	}

	return record, nil
}

// extractPostSafe isolates one post's extraction: a panic or error inside it
// is reported to the caller as a skip, never past the per-post boundary.
func (s *Scraper) extractPostSafe(post ElementHandle) (record *linkedin.PostRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("unexpected failure during post extraction: %v", r)
		}
	}()
	return s.extractPost(post)
}
