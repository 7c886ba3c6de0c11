//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui/pages"
)

func TestCategoriesAvailable(t *testing.T) {
	for _, c := range []pages.Category{
		pages.Appearance,
		pages.AppearanceTemplate,
		pages.AppearanceFavicon,
		pages.Catalog,
		pages.Countries,
		pages.Geozones,
		pages.Users,
	} {
		t.Run(c.Name, func(t *testing.T) {
			e, main := loggedIn(t)
			bdd := e.steps()
			var view pages.CategoryView

			bdd.When("admin navigates to category "+c.Name, func() {
				var err error
				view, err = main.ChangeCategory(c)
				require.NoError(t, err)
			})

			bdd.Then("category page is opened and category header is displayed", func() {
				require.NoError(t, view.VerifyPage())
				require.NoError(t, view.HeaderTextShouldMatch())
			})

			bdd.Then("breadcrumbs include category", func() {
				require.NoError(t, view.BreadcrumbsShouldMatch())
			})
		})
	}
}
