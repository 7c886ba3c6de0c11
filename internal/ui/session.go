// Package ui holds the browser session shared by elements, components
// and page objects.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/bdd"
	"github.com/backoffice-qa/backoffice-e2e/internal/snapshot"
)

// DefaultAssertTimeout bounds how long an assertion retries before it
// fails.
const DefaultAssertTimeout = 5 * time.Second

// Session binds a browser page to the back office under test.
type Session struct {
	Page    playwright.Page
	BaseURL string
	Log     *zap.Logger
	// Steps records actions and assertions as report steps.
	Steps     *bdd.Reporter
	Snapshots *snapshot.Matcher
	// Expect builds web-first assertions.
	Expect playwright.PlaywrightAssertions
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.Log = log }
}

func WithReporter(r *bdd.Reporter) Option {
	return func(s *Session) { s.Steps = r }
}

func WithSnapshots(m *snapshot.Matcher) Option {
	return func(s *Session) { s.Snapshots = m }
}

// WithAssertTimeout overrides DefaultAssertTimeout.
func WithAssertTimeout(d time.Duration) Option {
	return func(s *Session) { s.Expect = playwright.NewPlaywrightAssertions(float64(d.Milliseconds())) }
}

// WithAssertions replaces the assertion builder.
func WithAssertions(a playwright.PlaywrightAssertions) Option {
	return func(s *Session) { s.Expect = a }
}

// NewSession returns a session driving page against baseURL.
func NewSession(page playwright.Page, baseURL string, opts ...Option) *Session {
	s := &Session{Page: page, BaseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(s)
	}
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Steps == nil {
		s.Steps = bdd.NewReporter("session", "", s.Log)
	}
	if s.Expect == nil {
		s.Expect = playwright.NewPlaywrightAssertions(float64(DefaultAssertTimeout.Milliseconds()))
	}
	return s
}

// WithPage returns a copy of the session driving another page, e.g. a
// tab opened by a link.
func (s *Session) WithPage(page playwright.Page) *Session {
	c := *s
	c.Page = page
	return &c
}

// URL joins path to the base URL. Absolute URLs are returned as is.
func (s *Session) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL + path
}

func (s *Session) Locator(selector string) playwright.Locator {
	return s.Page.Locator(selector)
}

// Step runs fn as a report step.
func (s *Session) Step(title string, fn func() error) error {
	return s.Steps.Do(title, fn)
}

// Attach attaches text to the current step.
func (s *Session) Attach(name, text string) {
	s.Steps.AttachText(name, text)
}

// AttachPNG attaches an image to the current step.
func (s *Session) AttachPNG(name string, png []byte) {
	s.Steps.AttachPNG(name, png)
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(fullPage bool) ([]byte, error) {
	png, err := s.Page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(fullPage)})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return png, nil
}
