// Package components groups elements that appear together on several
// back-office pages.
package components

import (
	"fmt"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
)

// AdminSideMenu is the sidebar with the logo and the category list.
type AdminSideMenu struct {
	s *ui.Session

	Logo     *elements.Button
	Category *elements.Button
	Document *elements.Button
}

func NewAdminSideMenu(s *ui.Session) *AdminSideMenu {
	return &AdminSideMenu{
		s:        s,
		Logo:     elements.NewButton(s, "#sidebar > #logotype > a", "Logo button"),
		Category: elements.NewButton(s, "#sidebar > #box-apps-menu > li[data-code={{ category }}] > a", "Category button"),
		Document: elements.NewButton(s, "#sidebar > #box-apps-menu > li[data-code={{ category }}] li[data-code={{ doc }}] > a", "Category document button"),
	}
}

func (m *AdminSideMenu) ShouldBeVisible() error {
	return m.Logo.ShouldBeVisible()
}

// ChangeCategory opens a category and, when doc is set, one of its
// documents.
func (m *AdminSideMenu) ChangeCategory(category, doc string) error {
	title := fmt.Sprintf("Changing category to %q", category)
	if doc != "" {
		title = fmt.Sprintf("Changing category to %q / %q", category, doc)
	}
	return m.s.Step(title, func() error {
		q := elements.Q{"category": category, "doc": doc}
		if err := m.Category.Click(q); err != nil {
			return err
		}
		if doc == "" {
			return nil
		}
		return m.Document.Click(q)
	})
}

// AdminTopMenu is the top strip with log out, frontend and breadcrumbs.
type AdminTopMenu struct {
	s *ui.Session

	LogOutButton   *elements.Button
	FrontendButton *elements.Button
	Breadcrumbs    *elements.List
}

func NewAdminTopMenu(s *ui.Session) *AdminTopMenu {
	return &AdminTopMenu{
		s:              s,
		LogOutButton:   elements.NewButton(s, "a[title='Sign Out']", "Log Out button"),
		FrontendButton: elements.NewButton(s, "a[title='Frontend']", "Frontend button"),
		Breadcrumbs:    elements.NewList(s, ".breadcrumb li", "Breadcrumbs items"),
	}
}

func (m *AdminTopMenu) ShouldBeVisible() error {
	return m.s.Step("Top menu should be visible", func() error {
		if err := m.LogOutButton.ShouldBeVisible(); err != nil {
			return err
		}
		return m.FrontendButton.ShouldBeVisible()
	})
}

func (m *AdminTopMenu) LogOut() error {
	return m.LogOutButton.Click()
}

func (m *AdminTopMenu) OpenFrontend() error {
	return m.FrontendButton.Click()
}

// BreadcrumbsShouldMatch checks the breadcrumbs after the leading
// "Dashboard" item.
func (m *AdminTopMenu) BreadcrumbsShouldMatch(items ...string) error {
	return m.Breadcrumbs.ShouldHaveItems(append([]string{"Dashboard"}, items...))
}
