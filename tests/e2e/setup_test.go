//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backoffice-qa/backoffice-e2e/internal/bdd"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/pages"
	"github.com/backoffice-qa/backoffice-e2e/tests/e2e/helpers"
)

// env is the browser, session and fixtures of one test.
type env struct {
	browser  *helpers.BrowserHelper
	s        *ui.Session
	auth     *helpers.AuthHelper
	fixtures *helpers.Fixtures
}

func (e *env) steps() *bdd.Reporter { return e.browser.Steps }

func newEnv(t *testing.T) *env {
	t.Helper()
	browser := helpers.NewBrowserHelper(t).MustSetup()
	s := browser.Session()
	return &env{
		browser:  browser,
		s:        s,
		auth:     helpers.NewAuthHelper(browser, s),
		fixtures: helpers.NewFixtures(browser),
	}
}

// loggedIn returns an env signed in as the configured admin.
func loggedIn(t *testing.T) (*env, *pages.MainPage) {
	t.Helper()
	e := newEnv(t)
	main, err := e.auth.LoginAsAdmin()
	require.NoError(t, err)
	return e, main
}

// atCategory returns an env signed in and at category c.
func atCategory[T pages.CategoryView](t *testing.T, c pages.Category) (*env, T) {
	t.Helper()
	e, main := loggedIn(t)
	return e, helpers.AdminCategoryPage[T](t, main, c)
}
