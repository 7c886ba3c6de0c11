package elements

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// Label is static text such as a form label or a notice.
type Label struct {
	Element
}

func NewLabel(s *ui.Session, selector, name string) *Label {
	return &Label{newElement(s, "label", selector, name)}
}

// Title is a page or card header.
type Title struct {
	Element
}

func NewTitle(s *ui.Session, selector, name string) *Title {
	return &Title{newElement(s, "title", selector, name)}
}

// Banner is a notification shown after an action.
type Banner struct {
	Element
}

func NewBanner(s *ui.Session, selector, name string) *Banner {
	return &Banner{newElement(s, "banner", selector, name)}
}

// ShouldShow checks that the banner is visible with the given text.
func (b *Banner) ShouldShow(text any, q ...Q) error {
	if err := b.ShouldBeVisible(q...); err != nil {
		return err
	}
	return b.ShouldHaveText(text, q...)
}

// ListItem is a single <li>.
type ListItem struct {
	Element
}

func NewListItem(s *ui.Session, selector, name string) *ListItem {
	return &ListItem{newElement(s, "list item", selector, name)}
}

// Link is an <a> element.
type Link struct {
	Element
}

func NewLink(s *ui.Session, selector, name string) *Link {
	return &Link{newElement(s, "link", selector, name)}
}

// Href returns the raw href attribute.
func (a *Link) Href(q ...Q) (string, error) {
	l, err := a.Locator(q...)
	if err != nil {
		return "", err
	}
	href, err := l.GetAttribute("href")
	if err != nil {
		return "", fmt.Errorf("failed to read href of %s: %w", a, err)
	}
	return href, nil
}

func (a *Link) ShouldHaveHref(href string, q ...Q) error {
	return a.do(fmt.Sprintf("%s should have href %q", a.title(), href), q, func(l playwright.Locator) error {
		return a.expect(l).ToHaveAttribute("href", href)
	})
}
