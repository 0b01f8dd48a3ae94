package scraper

import (
	"strings"
	"time"

	"liscraper/pkg/linkedin"
)

// extractComments reveals a post's comment list, expands it until the
// load-more control disappears, and extracts up to MaxComments comments in
// DOM order. A post without a discoverable comments affordance yields an
// empty list, not an error.
func (s *Scraper) extractComments(post ElementHandle) []linkedin.CommentRecord {
	buttons := s.session.FindAll(post, selCommentsButton)
	if len(buttons) == 0 {
		return nil
	}
	if err := s.session.Click(buttons[0]); err != nil {
		s.logger.WithError(err).Debug("comments affordance vanished before click")
		return nil
	}
	time.Sleep(s.cfg.Scraper.CommentSettle)

	// Expand until the control disappears. The page removes the button once
	// every comment is loaded, which bounds the loop.
	for {
		more := s.session.FindAll(post, selLoadMoreComments)
		if len(more) == 0 {
			break
		}
		if err := s.session.Click(more[0]); err != nil {
			break
		}
		time.Sleep(s.cfg.Scraper.CommentSettle)
	}

	items := s.session.FindAll(post, selCommentItem)
	if max := s.cfg.Scraper.MaxComments; len(items) > max {
		items = items[:max]
	}

	var comments []linkedin.CommentRecord
	for _, item := range items {
		textEls := s.session.FindAll(item, selCommentText)
		if len(textEls) == 0 {
			continue
		}
		text, err := s.session.Text(textEls[0])
		if err != nil {
			// This comment went away mid-read; the rest are still good.
			continue
		}

		likes := "0"
		if likeEls := s.session.FindAll(item, selCommentLikes); len(likeEls) > 0 {
			if v, err := s.session.Text(likeEls[0]); err == nil {
				likes = linkedin.DigitRun(v)
			}
		}

		comments = append(comments, linkedin.CommentRecord{
			CommentText: strings.TrimSpace(text),
			Likes:       likes,
		})
	}
	return comments
}
