package scraper

import "strings"

// extractMedia collects media source URLs from a post element. Each candidate
// class is queried as tag.class in order and matches are concatenated
// preserving first-seen order. Inline base64 stubs left behind by lazy
// loading are dropped. Absence of media is not an error.
func (s *Scraper) extractMedia(post ElementHandle, tag string, classes []string) []string {
	var urls []string
	for _, class := range classes {
		for _, el := range s.session.FindAll(post, tag+"."+class) {
			src, ok, err := s.session.Attribute(el, "src")
			if err != nil || !ok {
				continue
			}
			src = strings.TrimSpace(src)
			if src == "" || strings.HasPrefix(src, lazyLoadStubPrefix) {
				continue
			}
			urls = append(urls, src)
		}
	}
	return urls
}
