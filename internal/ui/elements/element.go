// Package elements wraps playwright locators into named page elements.
// Every action and assertion runs as a report step titled after the
// element, e.g. `Clicking button with name "Save"`.
package elements

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/textrepo"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// Q qualifies a selector template, e.g. Q{"row": 2} renders
// `tr:nth-child({{ row }})` as `tr:nth-child(2)`.
type Q map[string]any

// ErrMissingQualifier is returned when a selector placeholder has no
// value.
var ErrMissingQualifier = errors.New("missing selector qualifier")

var (
	placeholder = regexp.MustCompile(`{{\s*([A-Za-z_][A-Za-z0-9_]*)\s*}}`)
	templates   sync.Map
)

// Render fills the placeholders of selector from q.
func Render(selector string, q Q) (string, error) {
	if !strings.Contains(selector, "{{") {
		return selector, nil
	}
	for _, m := range placeholder.FindAllStringSubmatch(selector, -1) {
		if _, ok := q[m[1]]; !ok {
			return "", fmt.Errorf("%w %q in %q", ErrMissingQualifier, m[1], selector)
		}
	}

	var tpl *pongo2.Template
	if cached, ok := templates.Load(selector); ok {
		tpl = cached.(*pongo2.Template)
	} else {
		compiled, err := pongo2.FromString("{% autoescape off %}" + selector + "{% endautoescape %}")
		if err != nil {
			return "", fmt.Errorf("invalid selector template %q: %w", selector, err)
		}
		templates.Store(selector, compiled)
		tpl = compiled
	}

	out, err := tpl.Execute(pongo2.Context(q))
	if err != nil {
		return "", fmt.Errorf("failed to render selector %q: %w", selector, err)
	}
	return out, nil
}

func merge(qs []Q) Q {
	switch len(qs) {
	case 0:
		return nil
	case 1:
		return qs[0]
	}
	out := Q{}
	for _, q := range qs {
		for k, v := range q {
			out[k] = v
		}
	}
	return out
}

// Element is a named selector on the session page.
type Element struct {
	s        *ui.Session
	kind     string
	selector string
	name     string
}

func newElement(s *ui.Session, kind, selector, name string) Element {
	return Element{s: s, kind: kind, selector: selector, name: name}
}

// New returns a generic element.
func New(s *ui.Session, selector, name string) Element {
	return newElement(s, "element", selector, name)
}

func (e Element) Name() string     { return e.name }
func (e Element) Kind() string     { return e.kind }
func (e Element) Selector() string { return e.selector }

func (e Element) Session() *ui.Session { return e.s }

func (e Element) String() string {
	return fmt.Sprintf("%s with name %q", e.kind, e.name)
}

// title is the capitalized String, used by assertion steps.
func (e Element) title() string {
	s := e.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Locator returns the locator of the element qualified by q.
func (e Element) Locator(q ...Q) (playwright.Locator, error) {
	sel, err := Render(e.selector, merge(q))
	if err != nil {
		return nil, err
	}
	return e.s.Locator(sel), nil
}

// do runs fn against the qualified locator as a step.
func (e Element) do(title string, q []Q, fn func(l playwright.Locator) error) error {
	return e.s.Step(title, func() error {
		l, err := e.Locator(q...)
		if err != nil {
			return err
		}
		return fn(l)
	})
}

func (e Element) expect(l playwright.Locator) playwright.LocatorAssertions {
	return e.s.Expect.Locator(l)
}

func (e Element) Click(q ...Q) error {
	return e.do("Clicking "+e.String(), q, func(l playwright.Locator) error {
		return l.Click()
	})
}

func (e Element) ShouldBeVisible(q ...Q) error {
	return e.do(e.title()+" should be visible", q, func(l playwright.Locator) error {
		return e.expect(l).ToBeVisible()
	})
}

func (e Element) ShouldBeHidden(q ...Q) error {
	return e.do(e.title()+" should be hidden", q, func(l playwright.Locator) error {
		return e.expect(l).ToBeHidden()
	})
}

// ShouldHaveText checks the element text against a string, a
// *regexp.Regexp or a textrepo.Message.
func (e Element) ShouldHaveText(text any, q ...Q) error {
	want := expected(text)
	return e.do(fmt.Sprintf("%s should have text %q", e.title(), fmt.Sprint(text)), q, func(l playwright.Locator) error {
		return e.expect(l).ToHaveText(want)
	})
}

// Text returns the trimmed text content.
func (e Element) Text(q ...Q) (string, error) {
	l, err := e.Locator(q...)
	if err != nil {
		return "", err
	}
	text, err := l.TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", e, err)
	}
	return strings.TrimSpace(text), nil
}

// Count returns the number of nodes matching the element.
func (e Element) Count(q ...Q) (int, error) {
	l, err := e.Locator(q...)
	if err != nil {
		return 0, err
	}
	n, err := l.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", e, err)
	}
	return n, nil
}

func expected(v any) any {
	switch m := v.(type) {
	case textrepo.Message:
		return m.Expected()
	case *textrepo.Message:
		return m.Expected()
	}
	return v
}
