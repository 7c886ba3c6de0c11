//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backoffice-qa/backoffice-e2e/internal/ordering"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/pages"
)

func TestCountriesOrder(t *testing.T) {
	e, countries := atCategory[*pages.CountriesPage](t, pages.Countries)
	bdd := e.steps()
	data := e.fixtures.Data().Countries

	bdd.When("list of countries is loaded", func() {
		require.NoError(t, countries.ShouldMatchSnapshot())
	})

	bdd.Then("list of countries contains every country", func() {
		require.NoError(t, countries.CountryListSizeShouldBe(data.Total))
	})

	bdd.Then("countries are A-Z ordered with special rules", func() {
		names, err := countries.CountryNames()
		require.NoError(t, err)
		require.NoError(t, ordering.Check(names, data.OrderingRules,
			"Countries in the table are not A-Z ordered!", ordering.Options{}))
	})
}

func TestCountriesFormVerification(t *testing.T) {
	e, countries := atCategory[*pages.CountriesPage](t, pages.Countries)
	bdd := e.steps()
	var form *pages.CountriesAddFormPage

	bdd.When("user clicks 'Create New Country' button", func() {
		var err error
		form, err = countries.CreateNew()
		require.NoError(t, err)
	})

	bdd.Then("form 'Create New Country' contains expected fields and controls", func() {
		require.NoError(t, form.VerifyPage())
	})

	bdd.Then("form fields are annotated with links", func() {
		require.NoError(t, form.FieldsShouldBeAnnotated(e.fixtures.Data().Countries.Annotations))
	})

	bdd.Then("annotation links open in new tabs", func() {
		require.NoError(t, form.AnnotationsShouldOpenInNewTabs())
	})

	bdd.Then("clicking 'Cancel' returns user to Countries page", func() {
		require.NoError(t, form.Cancel())
		require.NoError(t, countries.VerifyPage())
	})
}
