// Package fakebrowser provides a recording stand-in for a playwright page
// so page objects can be unit tested without a browser. Only the calls
// made by the ui packages are implemented; anything else panics through
// the embedded nil interface.
package fakebrowser

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Page records every action performed through its locators.
type Page struct {
	playwright.Page

	mu      sync.Mutex
	actions []string

	// Values holds input values by selector; Fill writes to it.
	Values map[string]string
	// Texts holds element texts by selector for AllTextContents and
	// ToHaveText.
	Texts map[string][]string
	// Hidden marks selectors that fail ToBeVisible.
	Hidden map[string]bool
	// EvaluateFn answers Locator.Evaluate calls.
	EvaluateFn func(selector, expression string, arg any) (any, error)
	// OnClick runs after a click is recorded, e.g. to change the URL.
	OnClick func(selector string)

	url string
}

func New(url string) *Page {
	return &Page{
		Values: map[string]string{},
		Texts:  map[string][]string{},
		Hidden: map[string]bool{},
		url:    url,
	}
}

func (p *Page) record(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, fmt.Sprintf(format, args...))
}

// Actions returns the recorded actions, e.g. "click #login".
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// Reset forgets the recorded actions.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = nil
}

// SetURL changes what URL returns.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &Locator{Selector: selector, page: p}
}

// Assertions returns web-first assertions checked against the recorded
// state instead of a DOM.
func (p *Page) Assertions() playwright.PlaywrightAssertions {
	return &assertions{page: p}
}

// pwLocator keeps the embedded field from being named Locator, which
// would hide the Locator method.
type pwLocator = playwright.Locator

// Locator is a selector bound to a fake page.
type Locator struct {
	pwLocator
	Selector string
	page     *Page
}

// Locator scopes a nested selector the way a CSS descendant combinator
// does.
func (l *Locator) Locator(selectorOrLocator interface{}, options ...playwright.LocatorLocatorOptions) playwright.Locator {
	var sel string
	switch s := selectorOrLocator.(type) {
	case string:
		sel = s
	case *Locator:
		sel = s.Selector
	default:
		panic(fmt.Sprintf("fakebrowser: unexpected selector %T", selectorOrLocator))
	}
	return &Locator{Selector: l.Selector + " " + sel, page: l.page}
}

func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	l.page.record("click %s", l.Selector)
	if l.page.OnClick != nil {
		l.page.OnClick(l.Selector)
	}
	return nil
}

func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.page.record("fill %s", l.Selector)
	l.page.mu.Lock()
	l.page.Values[l.Selector] = value
	l.page.mu.Unlock()
	return nil
}

func (l *Locator) InputValue(options ...playwright.LocatorInputValueOptions) (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return l.page.Values[l.Selector], nil
}

func (l *Locator) AllTextContents() ([]string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return append([]string(nil), l.page.Texts[l.Selector]...), nil
}

func (l *Locator) Count() (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return len(l.page.Texts[l.Selector]), nil
}

func (l *Locator) Evaluate(expression string, arg interface{}, options ...playwright.LocatorEvaluateOptions) (interface{}, error) {
	l.page.record("evaluate %s", l.Selector)
	if l.page.EvaluateFn == nil {
		return nil, fmt.Errorf("no evaluate handler for %s", l.Selector)
	}
	return l.page.EvaluateFn(l.Selector, expression, arg)
}

type assertions struct {
	playwright.PlaywrightAssertions
	page *Page
}

func (a *assertions) Locator(l playwright.Locator) playwright.LocatorAssertions {
	fl, ok := l.(*Locator)
	if !ok {
		panic(fmt.Sprintf("fakebrowser: unexpected locator %T", l))
	}
	return &locatorAssertions{l: fl}
}

type locatorAssertions struct {
	playwright.LocatorAssertions
	l *Locator
}

func (a *locatorAssertions) ToBeVisible(options ...playwright.LocatorAssertionsToBeVisibleOptions) error {
	p := a.l.page
	p.record("expect visible %s", a.l.Selector)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Hidden[a.l.Selector] {
		return fmt.Errorf("%s is hidden", a.l.Selector)
	}
	return nil
}

func (a *locatorAssertions) ToHaveValue(value interface{}, options ...playwright.LocatorAssertionsToHaveValueOptions) error {
	p := a.l.page
	p.record("expect value %s", a.l.Selector)
	p.mu.Lock()
	defer p.mu.Unlock()
	if got := p.Values[a.l.Selector]; got != value {
		return fmt.Errorf("%s has value %q, want %v", a.l.Selector, got, value)
	}
	return nil
}

func (a *locatorAssertions) ToHaveText(expected interface{}, options ...playwright.LocatorAssertionsToHaveTextOptions) error {
	p := a.l.page
	p.record("expect text %s", a.l.Selector)
	p.mu.Lock()
	got := p.Texts[a.l.Selector]
	p.mu.Unlock()

	var want []string
	switch e := expected.(type) {
	case string:
		want = []string{e}
	case []string:
		want = e
	default:
		// Patterns are not evaluated.
		return nil
	}
	if !reflect.DeepEqual(normalize(got), normalize(want)) {
		return fmt.Errorf("%s has text %q, want %q", a.l.Selector, got, want)
	}
	return nil
}

func normalize(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = strings.Join(strings.Fields(t), " ")
	}
	return out
}
