package pages

import (
	"fmt"

	"github.com/backoffice-qa/backoffice-e2e/internal/lookup"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/components"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

// Category describes a sidebar entry and the page it opens.
type Category struct {
	// Code is the data-code of the sidebar entry.
	Code string
	// Doc is the data-code of a nested entry; empty opens the default
	// document of the category.
	Doc         string
	Name        string
	Path        string
	Header      string
	Breadcrumbs []string
}

func (c Category) String() string { return c.Name }

var (
	Appearance = Category{
		Code:        "appearance",
		Name:        "Admin/Appearance/Template",
		Path:        "/admin/?app=appearance&doc=template",
		Header:      "Template",
		Breadcrumbs: []string{"Appearance", "Template"},
	}
	AppearanceTemplate = Category{
		Code:        "appearance",
		Doc:         "template",
		Name:        "Admin/Appearance/Template",
		Path:        "/admin/?app=appearance&doc=template",
		Header:      "Template",
		Breadcrumbs: []string{"Appearance", "Template"},
	}
	AppearanceFavicon = Category{
		Code:        "appearance",
		Doc:         "favicon",
		Name:        "Admin/Appearance/Favicon",
		Path:        "/admin/?app=appearance&doc=favicon",
		Header:      "Favicon",
		Breadcrumbs: []string{"Appearance", "Favicon"},
	}
	Catalog = Category{
		Code:        "catalog",
		Name:        "Admin/Catalog",
		Path:        "/admin/?app=catalog&doc=catalog",
		Header:      "Catalog",
		Breadcrumbs: []string{"Catalog"},
	}
	Countries = Category{
		Code:        "countries",
		Name:        "Admin/Countries",
		Path:        "/admin/?app=countries&doc=countries",
		Header:      "Countries",
		Breadcrumbs: []string{"Countries"},
	}
	Geozones = Category{
		Code:        "geo_zones",
		Name:        "Admin/Geo Zones",
		Path:        "/admin/?app=geo_zones&doc=geo_zones",
		Header:      "Geo Zones",
		Breadcrumbs: []string{"Geo Zones"},
	}
	Users = Category{
		Code:        "users",
		Name:        "Admin/Users",
		Path:        "/admin/?app=users&doc=users",
		Header:      "Users",
		Breadcrumbs: []string{"Users"},
	}
)

// Categories lists every category reachable from the sidebar.
var Categories = []Category{Appearance, AppearanceTemplate, AppearanceFavicon, Catalog, Countries, Geozones, Users}

// CategoryView is a page opened from the sidebar.
type CategoryView interface {
	Page
	Category() Category
	HeaderTextShouldMatch() error
	BreadcrumbsShouldMatch() error
}

// Open returns the page object of the category.
func (c Category) Open(s *ui.Session) CategoryView {
	switch c.Path {
	case Catalog.Path:
		return NewCatalogPage(s)
	case Countries.Path:
		return NewCountriesPage(s)
	case Geozones.Path:
		return NewGeozonesPage(s)
	case Users.Path:
		return NewUsersPage(s)
	}
	return NewCategoryPage(s, c)
}

// chrome is the header, menus and breadcrumbs every admin page shows.
type chrome struct {
	Base
	header      string
	breadcrumbs []string

	HeaderTitle *elements.Title
	TopMenu     *components.AdminTopMenu
	SideMenu    *components.AdminSideMenu
}

func newChrome(s *ui.Session, name, path, header string, breadcrumbs []string, headerName string) chrome {
	return chrome{
		Base:        newBase(s, name, path),
		header:      header,
		breadcrumbs: breadcrumbs,
		HeaderTitle: elements.NewTitle(s, "#main #content .card-title", headerName),
		TopMenu:     components.NewAdminTopMenu(s),
		SideMenu:    components.NewAdminSideMenu(s),
	}
}

func (c *chrome) Header() string { return c.header }

func (c *chrome) verifyChrome() error {
	if err := c.SideMenu.ShouldBeVisible(); err != nil {
		return err
	}
	if err := c.TopMenu.ShouldBeVisible(); err != nil {
		return err
	}
	return c.HeaderTitle.ShouldBeVisible()
}

// verify runs checks as the "Page is loaded" step.
func (c *chrome) verify(checks ...func() error) error {
	return c.s.Step("Page is loaded", func() error {
		if err := c.verifyChrome(); err != nil {
			return err
		}
		for _, check := range checks {
			if err := check(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *chrome) HeaderTextShouldMatch() error {
	return c.HeaderTitle.ShouldHaveText(c.header)
}

func (c *chrome) BreadcrumbsShouldMatch() error {
	return c.TopMenu.BreadcrumbsShouldMatch(c.breadcrumbs...)
}

// CategoryPage is a category page with only the common elements.
type CategoryPage struct {
	chrome
	category Category
}

func NewCategoryPage(s *ui.Session, c Category) *CategoryPage {
	return &CategoryPage{
		chrome:   newChrome(s, c.Name, c.Path, c.Header, c.Breadcrumbs, "Title of the category"),
		category: c,
	}
}

func (p *CategoryPage) Category() Category { return p.category }

func (p *CategoryPage) VerifyPage() error { return p.verify() }

// listing is a category page listing entities in a table.
type listing struct {
	*CategoryPage

	Table  *elements.Table
	Banner *elements.Banner
	// EditButton opens the edit form of a 1-based row.
	EditButton *elements.Button

	idRead []lookup.ReadStrategy
}

func newListing(s *ui.Session, c Category, tableName string, idRead lookup.ReadStrategy) listing {
	return listing{
		CategoryPage: NewCategoryPage(s, c),
		Table:        elements.NewTable(s, "#content form table", tableName),
		Banner:       elements.NewBanner(s, ".alert-success", "Notification banner"),
		EditButton:   elements.NewButton(s, "#content form tbody tr:nth-child({{ row }}) a.btn", "Edit"),
		idRead:       []lookup.ReadStrategy{idRead},
	}
}

// FindInTable returns the 0-based row of e. With updateID the ID shown
// in the row is stored on e.
func (p *listing) FindInTable(e models.Entity, updateID bool) (int, error) {
	row, err := p.Table.FindEntry(e)
	if err != nil {
		return -1, err
	}
	if updateID {
		values, err := p.Table.EntryTexts(row, p.idRead)
		if err != nil {
			return -1, err
		}
		e.SetEntityID(values[0])
	}
	p.s.Attach("Entry found", fmt.Sprintf("At row %d. Entity: %v", row, e))
	return row, nil
}

// openRow clicks Edit for e. A negative row or an entity without ID is
// looked up first.
func (p *listing) openRow(e models.Entity, row int) error {
	if row < 0 || e.EntityID() == "" {
		found, err := p.FindInTable(e, true)
		if err != nil {
			return err
		}
		row = found
	}
	// rows are 1-based in CSS
	return p.EditButton.Click(elements.Q{"row": row + 1})
}

func (p *listing) BannerShouldHaveText(text any) error {
	return p.Banner.ShouldShow(text)
}

func (p *listing) TableEntryShouldBeMissing(e models.Entity) error {
	return p.Table.EntryShouldBeMissing(e)
}

// formPage is a create or edit form opened from a category page.
type formPage struct {
	chrome

	SaveButton   *elements.Button
	CancelButton *elements.Button
}

func newFormPage(s *ui.Session, name, path, header string, breadcrumbs []string) formPage {
	return formPage{
		chrome:       newChrome(s, name, path, header, breadcrumbs, "Form Title"),
		SaveButton:   elements.NewButton(s, "#content .card-action button[name='save']", "Save"),
		CancelButton: elements.NewButton(s, "#content .card-action button[name='cancel']", "Cancel"),
	}
}

func (f *formPage) Save() error {
	return f.s.Step("Save form", func() error { return f.SaveButton.Click() })
}

func (f *formPage) Cancel() error {
	return f.s.Step("Cancel form", func() error { return f.CancelButton.Click() })
}

type visibleElement interface {
	ShouldBeVisible(q ...elements.Q) error
}

func visible(els ...visibleElement) func() error {
	return func() error {
		for _, el := range els {
			if err := el.ShouldBeVisible(); err != nil {
				return err
			}
		}
		return nil
	}
}

// fieldCheck is an expected value and the value shown by the UI.
type fieldCheck struct {
	field string
	want  string
	got   string
}

// compare runs one step per check and reports the first mismatch.
func (p *listing) compare(subject string, checks ...fieldCheck) error {
	for _, c := range checks {
		err := p.s.Step(fmt.Sprintf("%s matches %q", c.field, c.want), func() error {
			if c.want != c.got {
				return fmt.Errorf("%s mismatch for %s: table shows %q, want %q", c.field, subject, c.got, c.want)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
