// Package pages holds the page objects of the back office. Page objects
// expose what a user can do on a page as methods that run report steps
// and return errors instead of failing a test.
package pages

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/snapshot"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// Page is a back-office page that can be navigated to and verified.
type Page interface {
	// URL returns the absolute URL of the page.
	URL() string
	// VerifyPage checks that the key content of the page is present.
	VerifyPage() error
}

// Base carries the session and address of a page.
type Base struct {
	s    *ui.Session
	name string
	path string
}

func newBase(s *ui.Session, name, path string) Base {
	return Base{s: s, name: name, path: path}
}

func (b *Base) Session() *ui.Session { return b.s }

// Name identifies the page in reports and snapshot names.
func (b *Base) Name() string { return b.name }

func (b *Base) URL() string { return b.s.URL(b.path) }

// Visit navigates to the page and waits for the network to settle.
func (b *Base) Visit() error {
	return b.VisitURL(b.URL())
}

// VisitURL navigates to url and waits for the network to settle.
func (b *Base) VisitURL(url string) error {
	return b.s.Step("Visiting "+url, func() error {
		_, err := b.s.Page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
		})
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", url, err)
		}
		return nil
	})
}

// Reload reloads the current page.
func (b *Base) Reload() error {
	return b.s.Step("Reloading page "+b.s.Page.URL(), func() error {
		_, err := b.s.Page.Reload(playwright.PageReloadOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		return err
	})
}

func (b *Base) ShouldHaveTitle(title string) error {
	return b.s.Step(fmt.Sprintf("Page title should be %q", title), func() error {
		return b.s.Expect.Page(b.s.Page).ToHaveTitle(title)
	})
}

// ShouldHaveURL checks the current URL against the page URL.
func (b *Base) ShouldHaveURL() error {
	url := b.URL()
	return b.s.Step("Page URL should be "+url, func() error {
		return b.s.Expect.Page(b.s.Page).ToHaveURL(url)
	})
}

// ShouldMatchSnapshot compares a screenshot of the viewport with the
// baseline named after the page.
func (b *Base) ShouldMatchSnapshot() error {
	return b.s.Step(fmt.Sprintf("Page %q should match snapshot", b.name), func() error {
		if b.s.Snapshots == nil {
			b.s.Log.Debug("no snapshot matcher configured", zap.String("page", b.name))
			return nil
		}
		png, err := b.s.Screenshot(false)
		if err != nil {
			return err
		}
		err = b.s.Snapshots.Match(b.name, png)
		var mm *snapshot.MismatchError
		if errors.As(err, &mm) {
			b.s.AttachPNG("Actual screenshot", png)
		}
		return err
	})
}
