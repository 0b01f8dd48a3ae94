// Package browser owns the Chrome process behind a scrape run: allocator
// lifecycle, login, navigation, and the DOM accessor the extraction
// pipeline drives the page through.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"liscraper/pkg/config"
	"liscraper/pkg/logger"
)

const loginURL = "https://www.linkedin.com/login"

// ErrLoginFailed is returned when the browser is still parked on the login
// (or checkpoint) page after submitting credentials.
var ErrLoginFailed = errors.New("login did not complete")

// Session is one live Chrome page. It is a single shared mutable resource:
// never use it from more than one goroutine.
type Session struct {
	ctx           context.Context
	cancel        context.CancelFunc
	allocCancel   context.CancelFunc
	cfg           *config.Config
	logger        logger.Logger
	authenticated bool
}

// NewSession launches Chrome with the configured window size and headless
// mode. Close must run on every exit path once NewSession succeeds.
func NewSession(cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		cfg:         cfg,
		logger:      logger.GetLogger(),
	}

	// Launch eagerly so a missing or broken Chrome surfaces here instead of
	// in the middle of a run.
	if err := chromedp.Run(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	// The feed occasionally raises confirmation dialogs; accept them so the
	// page never blocks waiting for input.
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if e, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			s.logger.WithField("message", e.Message).Debug("Dismissing page dialog")
			go chromedp.Run(ctx, page.HandleJavaScriptDialog(true))
		}
	})

	s.logger.WithField("headless", cfg.Browser.Headless).Info("Browser started")
	return s, nil
}

// Login signs in to LinkedIn and marks the session authenticated. The
// post-submit settle is a ceiling; success is judged by the browser leaving
// the login page.
func (s *Session) Login(email, password string) error {
	s.logger.WithField("email", email).Info("Logging in")

	err := chromedp.Run(s.ctx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible("#username", chromedp.ByQuery),
		chromedp.SendKeys("#username", email, chromedp.ByQuery),
		chromedp.SendKeys("#password", password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Browser.LoginSettle),
	)
	if err != nil {
		return fmt.Errorf("login flow failed: %w", err)
	}

	var location string
	if err := chromedp.Run(s.ctx, chromedp.Location(&location)); err != nil {
		return fmt.Errorf("failed to read post-login location: %w", err)
	}
	if strings.Contains(location, "/login") || strings.Contains(location, "/checkpoint") {
		s.logger.WithField("location", location).Error("Still on login page after submit")
		return ErrLoginFailed
	}

	s.authenticated = true
	s.logger.Info("Login completed")
	return nil
}

// Authenticated reports whether Login has completed successfully.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Navigate opens the given URL and waits for the document to be ready,
// bounded by the configured navigation timeout.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Browser.NavTimeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Close tears down the page and the browser process. Safe to call more
// than once.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.authenticated = false
	return nil
}
