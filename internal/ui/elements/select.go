package elements

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

const optionsScript = `node => Array.from(node.options).map(o => [o.text, o.value])`

// Option is an <option> of a Select.
type Option struct {
	Label string
	Value string
}

// Select is a <select> dropdown.
type Select struct {
	Element
}

func NewSelect(s *ui.Session, selector, name string) *Select {
	return &Select{newElement(s, "dropdown", selector, name)}
}

func (d *Select) options(q []Q) (playwright.Locator, error) {
	l, err := d.Locator(q...)
	if err != nil {
		return nil, err
	}
	return l.Locator("option"), nil
}

// OptionNames returns the trimmed label of every option, placeholder
// included.
func (d *Select) OptionNames(q ...Q) ([]string, error) {
	l, err := d.options(q)
	if err != nil {
		return nil, err
	}
	return trimmedTexts(l, d.Element)
}

// OptionsData returns label and value of every option.
func (d *Select) OptionsData(q ...Q) ([]Option, error) {
	l, err := d.Locator(q...)
	if err != nil {
		return nil, err
	}
	res, err := l.Evaluate(optionsScript, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read options of %s: %w", d, err)
	}
	return parseOptions(res)
}

func parseOptions(res any) ([]Option, error) {
	items, ok := res.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected options result %T", res)
	}
	out := make([]Option, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("unexpected option %v", item)
		}
		out = append(out, Option{Label: fmt.Sprint(pair[0]), Value: fmt.Sprint(pair[1])})
	}
	return out, nil
}

// SelectByValue selects the option with the given value.
func (d *Select) SelectByValue(value string, q ...Q) error {
	return d.do(fmt.Sprintf("Selecting value %q in %s", value, d), q, func(l playwright.Locator) error {
		_, err := l.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
		return err
	})
}

// SelectByLabel selects the option with the given label.
func (d *Select) SelectByLabel(label string, q ...Q) error {
	return d.do(fmt.Sprintf("Selecting %q in %s", label, d), q, func(l playwright.Locator) error {
		_, err := l.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}})
		return err
	})
}

// ShouldHaveSizeOf checks the number of options.
func (d *Select) ShouldHaveSizeOf(size int, q ...Q) error {
	return d.s.Step(fmt.Sprintf("Dropdown should have %d items", size), func() error {
		l, err := d.options(q)
		if err != nil {
			return err
		}
		return d.expect(l).ToHaveCount(size)
	})
}
