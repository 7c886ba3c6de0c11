package pages

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/fixtures"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/components"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

const countryNameColumn = 5

// NewTabTimeout bounds how long a clicked annotation link may take to
// open its tab.
const NewTabTimeout = 2 * time.Second

// CountriesPage is Admin / Countries.
type CountriesPage struct {
	*CategoryPage

	Table           *elements.Table
	CreateNewButton *elements.Button
}

func NewCountriesPage(s *ui.Session) *CountriesPage {
	return &CountriesPage{
		CategoryPage:    NewCategoryPage(s, Countries),
		Table:           elements.NewTable(s, "#content form table", "Countries"),
		CreateNewButton: elements.NewButton(s, "#main #content .card-action a", "Create New Country"),
	}
}

func (p *CountriesPage) VerifyPage() error {
	return p.verify(visible(p.Table))
}

// CountryNames returns the names of the listed countries in table order.
func (p *CountriesPage) CountryNames() ([]string, error) {
	rows, err := p.Table.RowsContent([]int{countryNameColumn})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r[0]
	}
	p.s.Log.Info("countries table read", zap.Int("count", len(names)))
	p.s.Log.Debug("countries", zap.Strings("names", names))
	return names, nil
}

func (p *CountriesPage) CountryListSizeShouldBe(size int) error {
	return p.Table.ShouldHaveSizeOf(size)
}

func (p *CountriesPage) CreateNew() (*CountriesAddFormPage, error) {
	if err := p.CreateNewButton.Click(); err != nil {
		return nil, err
	}
	return NewCountriesAddFormPage(p.s), nil
}

// CountriesAddFormPage is the Create New Country form.
type CountriesAddFormPage struct {
	formPage

	StatusEnabled  *elements.Button
	StatusDisabled *elements.Button

	// Annotated holds the fields whose label links to a reference, by
	// input name.
	Annotated map[string]*components.LinkAnnotatedField
	order     []string
}

func NewCountriesAddFormPage(s *ui.Session) *CountriesAddFormPage {
	f := &CountriesAddFormPage{
		formPage:       newFormPage(s, "Admin/Countries/AddForm", "/admin/?app=countries&doc=edit_country", "Create New Country", []string{"Countries", "Create New Country"}),
		StatusEnabled:  elements.NewButton(s, "form input[name=status][value=1]", "Enabled"),
		StatusDisabled: elements.NewButton(s, "form input[name=status][value=0]", "Disabled"),
		Annotated:      map[string]*components.LinkAnnotatedField{},
	}
	add := func(tag, input, name string, opts ...components.FieldOption) {
		locator := fmt.Sprintf("form div.form-group:has(%s[name=%s])", tag, input)
		f.Annotated[input] = components.NewLinkAnnotatedField(s, locator, name, opts...)
		f.order = append(f.order, input)
	}
	add("input", "iso_code_1", "Number (ISO Code)")
	add("input", "iso_code_2", "Code (ISO Code)")
	add("input", "iso_code_3", "Code (ISO Code)")
	add("textarea", "address_format", "Address Format",
		components.AsTextarea(), components.WithSelector(components.PartLink, "a:last-child"))
	add("input", "tax_id_format", "Tax ID Format")
	add("input", "postcode_format", "Postcode Format")
	add("input", "language_code", "Language Code")
	add("input", "currency_code", "Currency Code")
	add("input", "phone_code", "Phone Country Code")
	return f
}

func (f *CountriesAddFormPage) VerifyPage() error {
	return f.verify(
		visible(f.SaveButton, f.CancelButton),
		func() error { return f.Annotated["iso_code_1"].ShouldBeVisible(false) },
		func() error { return f.Annotated["address_format"].ShouldBeVisible(false) },
	)
}

// FieldsShouldBeAnnotated checks label text and link of every field in
// expected. Unknown field names are logged and skipped.
func (f *CountriesAddFormPage) FieldsShouldBeAnnotated(expected map[string]fixtures.Annotation) error {
	return f.s.Step("Fields should have labels with links", func() error {
		var errs []error
		for _, name := range f.order {
			want, ok := expected[name]
			if !ok {
				continue
			}
			errs = append(errs, f.Annotated[name].ShouldBeAnnotated(want.Label, want.Href))
		}
		for name := range expected {
			if _, ok := f.Annotated[name]; !ok {
				f.s.Log.Warn("no annotated field with this input name", zap.String("input", name))
			}
		}
		return errors.Join(errs...)
	})
}

// AnnotationsShouldOpenInNewTabs clicks every annotation link and
// checks that it opens a new tab, closing the tab afterwards.
func (f *CountriesAddFormPage) AnnotationsShouldOpenInNewTabs() error {
	return f.s.Step("Annotation links should open in new tabs", func() error {
		for _, name := range f.order {
			field := f.Annotated[name]
			tab, err := f.s.Page.Context().ExpectPage(func() error {
				return field.ClickLink()
			}, playwright.BrowserContextExpectPageOptions{
				Timeout: playwright.Float(float64(NewTabTimeout.Milliseconds())),
			})
			if err != nil {
				href, _ := field.LinkHref()
				return fmt.Errorf("no new tab opened by the link of %s (href=%s): %w", field.Name(), href, err)
			}
			f.s.Log.Debug("closing annotation tab", zap.String("url", tab.URL()))
			if err := tab.Close(); err != nil {
				return fmt.Errorf("failed to close tab: %w", err)
			}
		}
		return nil
	})
}
