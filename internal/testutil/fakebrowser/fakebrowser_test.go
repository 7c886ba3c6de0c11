package fakebrowser

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ playwright.Page    = (*Page)(nil)
	_ playwright.Locator = (*Locator)(nil)
)

func TestNestedLocator(t *testing.T) {
	page := New("http://shop.local/admin/")
	page.Texts["#content tbody tr"] = []string{"a", "b"}

	rows := page.Locator("#content").Locator("tbody tr")
	n, err := rows.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, rows.Click())
	assert.Equal(t, []string{"click #content tbody tr"}, page.Actions())
}

func TestEvaluateUsesHandler(t *testing.T) {
	page := New("http://shop.local/admin/")
	_, err := page.Locator("table").Evaluate("() => 1", nil)
	assert.Error(t, err)

	page.EvaluateFn = func(selector, expr string, arg any) (any, error) {
		return selector + ":" + expr, nil
	}
	got, err := page.Locator("table").Evaluate("() => 1", nil)
	require.NoError(t, err)
	assert.Equal(t, "table:() => 1", got)
	assert.Equal(t, []string{"evaluate table", "evaluate table"}, page.Actions())
}
