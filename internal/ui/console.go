package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ConsoleErrors collects browser console errors of a session.
type ConsoleErrors struct {
	s *Session
	// attach adds every error to the step running when it happens.
	attach bool

	mu     sync.Mutex
	errors []string
}

// CaptureConsoleErrors starts listening for console messages of type
// "error" on the session page.
func (s *Session) CaptureConsoleErrors(attachToStep bool) *ConsoleErrors {
	c := &ConsoleErrors{s: s, attach: attachToStep}
	s.Page.OnConsole(func(msg playwright.ConsoleMessage) {
		pageURL := ""
		if p := msg.Page(); p != nil {
			pageURL = p.URL()
		}
		c.record(msg.Type(), pageURL, msg.Text())
	})
	return c
}

func (c *ConsoleErrors) record(kind, pageURL, text string) {
	if kind != "error" {
		return
	}
	reported := fmt.Sprintf("Page: %s; text: %s.", pageURL, text)
	c.s.Log.Warn("browser console error", zap.String("error", reported))

	c.mu.Lock()
	c.errors = append(c.errors, reported)
	c.mu.Unlock()

	if c.attach {
		c.s.Attach("Browser Error", reported)
	}
}

// Errors returns the errors seen so far.
func (c *ConsoleErrors) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

// Report attaches all collected errors as one summary. Nothing happens
// when there were none.
func (c *ConsoleErrors) Report() {
	errs := c.Errors()
	if len(errs) == 0 {
		return
	}
	c.s.Attach("Browser Errors (All)", strings.Join(errs, "\n"))
	c.s.Log.Warn(fmt.Sprintf("There were %d browser console error(s) during the test", len(errs)))
}
