package browser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"liscraper/pkg/scraper"
)

// The DOM accessor keeps a page-side element registry (a window-scoped
// array) and hands out indices into it as handles. Re-registering an
// element already in the registry returns its existing index, which is what
// gives handle identity across overlapping selector scans. A registry slot
// whose element left the document resolves to ErrElementGone.

const findPollInterval = 200 * time.Millisecond

const findAllJS = `(function(scope, sel) {
	var reg = window.__liscraperReg = window.__liscraperReg || [];
	var root = scope < 0 ? document : reg[scope];
	if (!root || (scope >= 0 && !root.isConnected)) { return []; }
	var out = [];
	root.querySelectorAll(sel).forEach(function(el) {
		var idx = reg.indexOf(el);
		if (idx < 0) { idx = reg.push(el) - 1; }
		out.push(idx);
	});
	return out;
})(%d, %s)`

const textJS = `(function(i) {
	var reg = window.__liscraperReg || [];
	var el = reg[i];
	if (!el || !el.isConnected) { return null; }
	return el.innerText;
})(%d)`

const attributeJS = `(function(i, name) {
	var reg = window.__liscraperReg || [];
	var el = reg[i];
	if (!el || !el.isConnected) { return null; }
	return {found: el.hasAttribute(name), value: el.getAttribute(name) || ""};
})(%d, %s)`

const clickJS = `(function(i) {
	var reg = window.__liscraperReg || [];
	var el = reg[i];
	if (!el || !el.isConnected) { return false; }
	el.click();
	return true;
})(%d)`

const scrollIntoViewJS = `(function(i) {
	var reg = window.__liscraperReg || [];
	var el = reg[i];
	if (!el || !el.isConnected) { return false; }
	el.scrollIntoView({block: 'center'});
	return true;
})(%d)`

// FindAll returns the elements under scope matching selector. A stale
// scope, an evaluation failure, or no match all yield an empty slice.
func (s *Session) FindAll(scope scraper.ElementHandle, selector string) []scraper.ElementHandle {
	script := fmt.Sprintf(findAllJS, int(scope), strconv.Quote(selector))

	var indices []int
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &indices)); err != nil {
		s.logger.WithError(err).WithField("selector", selector).Debug("FindAll evaluation failed")
		return nil
	}

	handles := make([]scraper.ElementHandle, len(indices))
	for i, idx := range indices {
		handles[i] = scraper.ElementHandle(idx)
	}
	return handles
}

// FindOne polls for an element matching selector until the timeout ceiling
// expires. A zero timeout checks exactly once.
func (s *Session) FindOne(scope scraper.ElementHandle, selector string, timeout time.Duration) (scraper.ElementHandle, error) {
	deadline := time.Now().Add(timeout)
	for {
		if els := s.FindAll(scope, selector); len(els) > 0 {
			return els[0], nil
		}
		if !time.Now().Before(deadline) {
			return 0, scraper.ErrNotFound
		}
		time.Sleep(findPollInterval)
	}
}

// Text returns the rendered text of the element.
func (s *Session) Text(h scraper.ElementHandle) (string, error) {
	script := fmt.Sprintf(textJS, int(h))

	var text *string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &text)); err != nil {
		return "", fmt.Errorf("text evaluation failed: %w", err)
	}
	if text == nil {
		return "", scraper.ErrElementGone
	}
	return *text, nil
}

// Attribute returns the named attribute's value and presence.
func (s *Session) Attribute(h scraper.ElementHandle, name string) (string, bool, error) {
	script := fmt.Sprintf(attributeJS, int(h), strconv.Quote(name))

	var result *struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &result)); err != nil {
		return "", false, fmt.Errorf("attribute evaluation failed: %w", err)
	}
	if result == nil {
		return "", false, scraper.ErrElementGone
	}
	return result.Value, result.Found, nil
}

// Click dispatches a click on the element.
func (s *Session) Click(h scraper.ElementHandle) error {
	script := fmt.Sprintf(clickJS, int(h))

	var ok bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("click evaluation failed: %w", err)
	}
	if !ok {
		return scraper.ErrElementGone
	}
	return nil
}

// ScrollIntoView centers the element in the viewport.
func (s *Session) ScrollIntoView(h scraper.ElementHandle) error {
	script := fmt.Sprintf(scrollIntoViewJS, int(h))

	var ok bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("scroll evaluation failed: %w", err)
	}
	if !ok {
		return scraper.ErrElementGone
	}
	return nil
}

// ScrollToBottom scrolls the page to its current bottom.
func (s *Session) ScrollToBottom() error {
	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
	); err != nil {
		return fmt.Errorf("scroll to bottom failed: %w", err)
	}
	return nil
}

// DocumentHeight reports the current scroll height of the page.
func (s *Session) DocumentHeight() (int64, error) {
	var height int64
	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
	); err != nil {
		return 0, fmt.Errorf("failed to read document height: %w", err)
	}
	return height, nil
}

// The session must satisfy the pipeline's capability interface.
var _ scraper.Session = (*Session)(nil)
