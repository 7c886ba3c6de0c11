package elements

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

// FillMode changes how a filled value is reported and checked.
type FillMode uint8

const (
	// Masked logs the value as "****ret".
	Masked FillMode = 1 << iota
	// Validated checks the value of the input after filling it.
	Validated
)

// Plain fills without masking or validation.
const Plain FillMode = 0

func (m FillMode) show(value string) string {
	if m&Masked != 0 {
		return utils.MaskString(value)
	}
	return value
}

// Input is an <input> element.
type Input struct {
	Element
}

func NewInput(s *ui.Session, selector, name string) *Input {
	return &Input{newElement(s, "input", selector, name)}
}

// NewTextarea returns an input of kind "textarea".
func NewTextarea(s *ui.Session, selector, name string) *Input {
	return &Input{newElement(s, "textarea", selector, name)}
}

func (i *Input) Fill(value string, mode FillMode, q ...Q) error {
	title := fmt.Sprintf("Filling %q into %s", mode.show(value), i)
	return i.do(title, q, func(l playwright.Locator) error {
		if err := l.Fill(value); err != nil {
			return err
		}
		if mode&Validated != 0 {
			return i.ShouldHaveValue(value, mode, q...)
		}
		return nil
	})
}

// ClickAndFill focuses the input by a click first, the way a user would.
func (i *Input) ClickAndFill(value string, mode FillMode, q ...Q) error {
	if err := i.Click(q...); err != nil {
		return err
	}
	return i.Fill(value, mode, q...)
}

func (i *Input) ShouldHaveValue(value string, mode FillMode, q ...Q) error {
	title := fmt.Sprintf("%s should have value %q", i.title(), mode.show(value))
	return i.do(title, q, func(l playwright.Locator) error {
		return i.expect(l).ToHaveValue(value)
	})
}

// Value returns the current value of the input.
func (i *Input) Value(q ...Q) (string, error) {
	l, err := i.Locator(q...)
	if err != nil {
		return "", err
	}
	v, err := l.InputValue()
	if err != nil {
		return "", fmt.Errorf("failed to read value of %s: %w", i, err)
	}
	return v, nil
}

// SetFiles picks files on an <input type=file>.
func (i *Input) SetFiles(paths []string, q ...Q) error {
	return i.do(fmt.Sprintf("Setting files %v on %s", paths, i), q, func(l playwright.Locator) error {
		return l.SetInputFiles(paths)
	})
}
