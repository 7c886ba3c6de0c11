package elements

import (
	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// Button is a <button> or a link styled as one.
type Button struct {
	Element
}

func NewButton(s *ui.Session, selector, name string) *Button {
	return &Button{newElement(s, "button", selector, name)}
}

func (b *Button) Hover(q ...Q) error {
	return b.do("Hovering over "+b.String(), q, func(l playwright.Locator) error {
		return l.Hover()
	})
}

func (b *Button) DoubleClick(q ...Q) error {
	return b.do("Double clicking "+b.String(), q, func(l playwright.Locator) error {
		return l.Dblclick()
	})
}
