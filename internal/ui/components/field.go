package components

import (
	"fmt"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

// Parts of a field addressed by FieldOption overrides.
const (
	PartLabel    = "label"
	PartInput    = "input"
	PartTextarea = "textarea"
	PartLink     = "link"
)

type fieldConfig struct {
	textarea  bool
	selectors map[string]string
}

// FieldOption configures a Field.
type FieldOption func(*fieldConfig)

// AsTextarea makes the field hold a <textarea> instead of an <input>.
func AsTextarea() FieldOption {
	return func(c *fieldConfig) { c.textarea = true }
}

// WithSelector overrides the sub-selector of a part, relative to the
// field locator.
func WithSelector(part, selector string) FieldOption {
	return func(c *fieldConfig) { c.selectors[part] = selector }
}

func newFieldConfig(opts []FieldOption) *fieldConfig {
	c := &fieldConfig{selectors: map[string]string{
		PartLabel:    "label",
		PartInput:    "input",
		PartTextarea: "textarea",
		PartLink:     "a",
	}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Field is a label and its input nested in one form group.
type Field struct {
	s    *ui.Session
	name string

	Label *elements.Label
	Input *elements.Input
}

// NewField returns the field found under locator, e.g.
// "form div.form-group:has(input[name=code])".
func NewField(s *ui.Session, locator, name string, opts ...FieldOption) *Field {
	return newField(s, locator, name, newFieldConfig(opts))
}

func newField(s *ui.Session, locator, name string, c *fieldConfig) *Field {
	f := &Field{
		s:     s,
		name:  name,
		Label: elements.NewLabel(s, locator+" "+c.selectors[PartLabel], "Label for "+name),
	}
	if c.textarea {
		f.Input = elements.NewTextarea(s, locator+" "+c.selectors[PartTextarea], "Textarea for "+name)
	} else {
		f.Input = elements.NewInput(s, locator+" "+c.selectors[PartInput], "Input for "+name)
	}
	return f
}

func (f *Field) Name() string { return fmt.Sprintf("%q field", f.name) }

func (f *Field) ClickAndFill(value string, mode elements.FillMode, q ...elements.Q) error {
	return f.Input.ClickAndFill(value, mode, q...)
}

// ShouldBeVisible checks the label and, unless labelOnly, the input.
func (f *Field) ShouldBeVisible(labelOnly bool, q ...elements.Q) error {
	if err := f.Label.ShouldBeVisible(q...); err != nil {
		return err
	}
	if labelOnly {
		return nil
	}
	return f.Input.ShouldBeVisible(q...)
}

func (f *Field) ShouldHaveLabelText(text any, q ...elements.Q) error {
	return f.Label.ShouldHaveText(text, q...)
}

func (f *Field) ShouldHaveValue(value string, mode elements.FillMode, q ...elements.Q) error {
	return f.Input.ShouldHaveValue(value, mode, q...)
}

// LinkAnnotatedField is a field whose label carries an explanatory link.
type LinkAnnotatedField struct {
	*Field
	Link *elements.Link
}

func NewLinkAnnotatedField(s *ui.Session, locator, name string, opts ...FieldOption) *LinkAnnotatedField {
	c := newFieldConfig(opts)
	return &LinkAnnotatedField{
		Field: newField(s, locator, name, c),
		Link:  elements.NewLink(s, locator+" label "+c.selectors[PartLink], "Link of annotated field "+name),
	}
}

func (f *LinkAnnotatedField) Name() string { return fmt.Sprintf("%q link-annotated field", f.name) }

func (f *LinkAnnotatedField) LinkHref(q ...elements.Q) (string, error) {
	return f.Link.Href(q...)
}

func (f *LinkAnnotatedField) ClickLink(q ...elements.Q) error {
	return f.Link.Click(q...)
}

func (f *LinkAnnotatedField) LabelShouldContainLink(q ...elements.Q) error {
	return f.s.Step(fmt.Sprintf("Label of %s should contain a link", f.Name()), func() error {
		return f.Link.ShouldBeVisible(q...)
	})
}

func (f *LinkAnnotatedField) LinkShouldHaveHref(href string, q ...elements.Q) error {
	return f.Link.ShouldHaveHref(href, q...)
}

// ShouldBeAnnotated checks label text and link of the field.
func (f *LinkAnnotatedField) ShouldBeAnnotated(label, href string) error {
	return f.s.Step(fmt.Sprintf("Checking %s", f.Name()), func() error {
		if err := f.ShouldBeVisible(false); err != nil {
			return err
		}
		if err := f.ShouldHaveLabelText(label); err != nil {
			return err
		}
		if err := f.LabelShouldContainLink(); err != nil {
			return err
		}
		return f.LinkShouldHaveHref(href)
	})
}
