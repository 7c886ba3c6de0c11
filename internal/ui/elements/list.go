package elements

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// List is a group of items; its selector matches every item, e.g.
// ".breadcrumb li".
type List struct {
	Element
}

func NewList(s *ui.Session, selector, name string) *List {
	return &List{newElement(s, "list", selector, name)}
}

// Items returns the trimmed text of every item.
func (li *List) Items(q ...Q) ([]string, error) {
	l, err := li.Locator(q...)
	if err != nil {
		return nil, err
	}
	return trimmedTexts(l, li.Element)
}

func (li *List) ShouldHaveItems(items []string, q ...Q) error {
	return li.do(fmt.Sprintf("%s should have items %q", strings.ToUpper(li.kind[:1])+li.kind[1:], items), q, func(l playwright.Locator) error {
		return li.expect(l).ToHaveText(items)
	})
}

func (li *List) ShouldHaveSizeOf(size int, q ...Q) error {
	return li.do(fmt.Sprintf("%s should have %d items", strings.ToUpper(li.kind[:1])+li.kind[1:], size), q, func(l playwright.Locator) error {
		return li.expect(l).ToHaveCount(size)
	})
}

func trimmedTexts(l playwright.Locator, e Element) ([]string, error) {
	texts, err := l.AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("failed to read texts of %s: %w", e, err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}
