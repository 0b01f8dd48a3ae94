package scraper

import "time"

// collectPostElements drives the scroll loop that triggers lazy loading,
// then scans for post elements across the selector fallback chain and
// deduplicates them by element identity, preserving first-seen order.
func (s *Scraper) collectPostElements() ([]ElementHandle, error) {
	for i := 0; i < s.cfg.Scraper.ScrollCount; i++ {
		before, err := s.session.DocumentHeight()
		if err != nil {
			return nil, err
		}
		if err := s.session.ScrollToBottom(); err != nil {
			return nil, err
		}
		time.Sleep(s.cfg.Scraper.ScrollPause)

		after, err := s.session.DocumentHeight()
		if err != nil {
			return nil, err
		}
		if after == before && !s.cfg.Scraper.DisableEarlyStop {
			// Height stalled: the feed has no more content to load.
			s.logger.WithField("scrolls", i+1).Debug("feed height stalled, ending scroll loop")
			break
		}
	}

	seen := make(map[ElementHandle]struct{})
	var posts []ElementHandle
	for _, sel := range postSelectors {
		for _, el := range s.session.FindAll(Document, sel) {
			if _, dup := seen[el]; dup {
				continue
			}
			seen[el] = struct{}{}
			posts = append(posts, el)
		}
	}
	return posts, nil
}
