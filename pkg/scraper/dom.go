package scraper

import (
	"errors"
	"time"
)

// ElementHandle is an opaque reference to an element on the live page. It is
// only meaningful to the DOM implementation that issued it and only for the
// duration of the current run; further page mutation may invalidate it.
type ElementHandle int

// Document is the scope value addressing the whole page.
const Document ElementHandle = -1

var (
	// ErrNotFound is returned by FindOne when no element matches the
	// selector within the timeout.
	ErrNotFound = errors.New("element not found")

	// ErrElementGone is returned when a previously issued handle no longer
	// resolves because the page mutated it out of existence. Callers treat
	// it as a per-item failure, never as a run failure.
	ErrElementGone = errors.New("element no longer attached to the page")

	// ErrNotLoggedIn is returned when a scrape is attempted without an
	// authenticated session.
	ErrNotLoggedIn = errors.New("session is not authenticated")
)

// DOM is the capability interface the extraction pipeline drives the page
// through. FindAll and FindOne never fail for plain absence; every other
// operation may return ErrElementGone.
type DOM interface {
	// FindAll returns the elements under scope matching selector, in
	// document order. A stale scope or no match yields an empty slice.
	FindAll(scope ElementHandle, selector string) []ElementHandle

	// FindOne waits up to timeout for an element under scope matching
	// selector. A zero timeout checks exactly once.
	FindOne(scope ElementHandle, selector string, timeout time.Duration) (ElementHandle, error)

	// Text returns the rendered text content of the element.
	Text(h ElementHandle) (string, error)

	// Attribute returns the value of the named attribute and whether it is
	// present on the element.
	Attribute(h ElementHandle, name string) (string, bool, error)

	// Click dispatches a click. Page scripts may mutate the DOM
	// asynchronously as a result.
	Click(h ElementHandle) error

	// ScrollIntoView scrolls the element into the viewport.
	ScrollIntoView(h ElementHandle) error

	// ScrollToBottom scrolls the page to its current bottom.
	ScrollToBottom() error

	// DocumentHeight reports the current scroll height of the page.
	DocumentHeight() (int64, error)
}

// Session is the authenticated browser page the scraper consumes. The
// browser package provides the chromedp-backed implementation.
type Session interface {
	DOM

	// Navigate opens the given URL and waits for the page to be ready.
	Navigate(url string) error

	// Authenticated reports whether login has completed.
	Authenticated() bool
}
