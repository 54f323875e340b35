// Package browser wraps a rod-driven Chromium instance behind the
// session surface the page objects consume.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"auth-pages/internal/pages"
)

var _ pages.Session = (*Session)(nil)

// ErrSessionClosed is returned by interactions on a closed session.
var ErrSessionClosed = errors.New("browser session is closed")

// Session owns one browser process and one page. It is not safe for
// concurrent use; the suite drives it from a single goroutine.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	log      *zap.Logger
	closed   bool
}

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	Logger     *zap.Logger
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		SlowMotion: 0,
		Timeout:    10 * time.Second,
		NoSandbox:  true,
		DevTools:   false,
	}
}

func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().
		ControlURL(url).
		Trace(cfg.DevTools).
		SlowMotion(cfg.SlowMotion).
		MustConnect()

	page := b.MustPage("about:blank")

	cfg.Logger.Debug("browser session started",
		zap.Bool("headless", cfg.Headless),
		zap.Duration("timeout", cfg.Timeout))

	return &Session{
		browser:  b,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		log:      cfg.Logger,
	}, nil
}

// Navigate loads url and waits for the page load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.log.Debug("navigate", zap.String("url", url))

	if err := s.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	s.page.WaitIdle(5 * time.Second)
	return nil
}

// Click waits up to the session timeout for selector, then
// left-clicks it. It returns as soon as the click is dispatched.
func (s *Session) Click(ctx context.Context, selector string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.log.Debug("click", zap.String("selector", selector))

	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %s: %w", selector, err)
	}
	return nil
}

// Fill waits for selector, clears the field, and types text into it.
func (s *Session) Fill(ctx context.Context, selector, text string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.log.Debug("fill", zap.String("selector", selector))

	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %s: %w", selector, err)
	}
	return nil
}

// SelectOption waits for the <select> matching selector and selects
// the option carrying the given value attribute. Synthesized clicks
// on option nodes are unreliable over CDP, so selection goes through
// the driver's native mechanism.
func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.log.Debug("select option", zap.String("selector", selector), zap.String("value", value))

	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("select not found: %s: %w", selector, err)
	}
	if err := el.Select([]string{fmt.Sprintf("[value=%q]", value)}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("option %q not selectable in %s: %w", value, selector, err)
	}
	return nil
}

// Visible reports whether the first element matching selector exists
// and is rendered. It never waits; a missing element is false.
func (s *Session) Visible(selector string) bool {
	if s.closed {
		return false
	}
	has, el, err := s.page.Has(selector)
	if err != nil || !has {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

// Present reports whether selector matches anything in the DOM,
// rendered or not. It never waits.
func (s *Session) Present(selector string) bool {
	if s.closed {
		return false
	}
	has, _, err := s.page.Has(selector)
	return err == nil && has
}

// Text returns the text of the first element matching selector, with
// ok=false when nothing matches. It never waits.
func (s *Session) Text(selector string) (string, bool) {
	if s.closed {
		return "", false
	}
	has, el, err := s.page.Has(selector)
	if err != nil || !has {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return text, true
}

// Texts returns the text of every element matching selector in
// document order, empty when nothing matches. It never waits.
func (s *Session) Texts(selector string) []string {
	if s.closed {
		return nil
	}
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

func (s *Session) CurrentURL() string {
	if s.closed {
		return ""
	}
	return s.page.MustInfo().URL
}

// Close shuts the browser down and reaps the launcher. Safe to call
// more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	s.log.Debug("browser session closed")
}
