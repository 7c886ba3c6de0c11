package pages

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-qa/backoffice-e2e/internal/bdd"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/testutil/fakebrowser"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

const baseURL = "http://shop.local"

func newSession(t *testing.T, page *fakebrowser.Page) (*ui.Session, *bdd.Reporter) {
	t.Helper()
	r := bdd.NewReporter(t.Name(), "", nil)
	return ui.NewSession(page, baseURL, ui.WithReporter(r), ui.WithAssertions(page.Assertions())), r
}

func titles(r *bdd.Reporter) []string {
	var out []string
	for _, s := range r.Steps() {
		out = append(out, s.Title)
	}
	return out
}

// tableScripts answers the compiled table scripts: lookups return found,
// reads return reads[number of read columns].
func tableScripts(found int, reads map[int][]any) func(selector, expr string, arg any) (any, error) {
	return func(selector, expr string, arg any) (any, error) {
		if !strings.HasPrefix(expr, "(table, params)") {
			return nil, errors.New("unexpected script")
		}
		var params struct {
			Row         *int              `json:"row"`
			Descriptors []json.RawMessage `json:"descriptors"`
		}
		if err := json.Unmarshal([]byte(arg.(string)), &params); err != nil {
			return nil, err
		}
		if params.Row == nil {
			return float64(found), nil
		}
		row, ok := reads[len(params.Descriptors)]
		if !ok {
			return nil, errors.New("unexpected read")
		}
		return row, nil
	}
}

func TestCategoryOpen(t *testing.T) {
	s, _ := newSession(t, fakebrowser.New(baseURL+"/admin/"))

	assert.IsType(t, &CatalogPage{}, Catalog.Open(s))
	assert.IsType(t, &CountriesPage{}, Countries.Open(s))
	assert.IsType(t, &GeozonesPage{}, Geozones.Open(s))
	assert.IsType(t, &UsersPage{}, Users.Open(s))
	assert.IsType(t, &CategoryPage{}, AppearanceFavicon.Open(s))

	for _, c := range Categories {
		view := c.Open(s)
		assert.Equal(t, c, view.Category(), c.Name)
		assert.Equal(t, baseURL+c.Path, view.URL(), c.Name)
	}
}

func TestLoginMasksPassword(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin")
	s, r := newSession(t, page)

	main, err := NewLoginPage(s).Login("admin", "supersecret")
	require.NoError(t, err)
	require.NotNil(t, main)

	assert.Equal(t, []string{
		"click input[name=username]",
		"fill input[name=username]",
		"click input[name=password]",
		"fill input[name=password]",
		"click button[name=login]",
	}, page.Actions())
	assert.Equal(t, "Logging in as admin/****ret", titles(r)[0])
	for _, title := range titles(r) {
		assert.NotContains(t, title, "supersecret")
	}
	assert.Equal(t, "supersecret", page.Values["input[name=password]"])
}

func TestMainPageChangeCategory(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, _ := newSession(t, page)

	view, err := NewMainPage(s).ChangeCategory(Geozones)
	require.NoError(t, err)
	assert.IsType(t, &GeozonesPage{}, view)
	assert.Equal(t, []string{"click #sidebar > #box-apps-menu > li[data-code=geo_zones] > a"}, page.Actions())
}

func TestVerifyPageFailsOnHiddenChrome(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, r := newSession(t, page)
	p := NewCategoryPage(s, AppearanceTemplate)

	require.NoError(t, p.VerifyPage())

	page.Hidden["#main #content .card-title"] = true
	assert.Error(t, p.VerifyPage())
	var failed []string
	for _, step := range r.Steps() {
		if step.Failed && step.Depth == 0 {
			failed = append(failed, step.Title)
		}
	}
	assert.Equal(t, []string{"Page is loaded"}, failed)
}

func TestCategoryHeaderAndBreadcrumbs(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	page.Texts["#main #content .card-title"] = []string{" Geo Zones "}
	page.Texts[".breadcrumb li"] = []string{"Dashboard", "Geo Zones"}
	s, _ := newSession(t, page)
	p := NewGeozonesPage(s)

	assert.NoError(t, p.HeaderTextShouldMatch())
	assert.NoError(t, p.BreadcrumbsShouldMatch())

	page.Texts[".breadcrumb li"] = []string{"Dashboard", "Users"}
	assert.Error(t, p.BreadcrumbsShouldMatch())
}

func TestFindInTableStoresID(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	page.EvaluateFn = tableScripts(2, map[int][]any{1: {"42"}})
	s, r := newSession(t, page)
	users := NewUsersPage(s)
	user := &models.UserEntity{Username: "qa-admin"}

	row, err := users.FindInTable(user, true)
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, "42", user.ID)
	assert.Contains(t, titles(r), "Entry found")
}

func TestEditEntryClicksOneBasedRow(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, _ := newSession(t, page)
	geozones := NewGeozonesPage(s)

	form, err := geozones.EditEntry(&models.GeozoneEntity{ID: "9", Name: "Zone"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"click #content form tbody tr:nth-child(1) a.btn"}, page.Actions())
	assert.Equal(t, "9", form.EntityID())
	assert.Equal(t, baseURL+"/admin/?app=geo_zones&doc=edit_geo_zone&page=1&geo_zone_id=9", form.URL())
}

func TestEditEntryLooksUpUnknownRow(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	page.EvaluateFn = tableScripts(3, map[int][]any{1: {"17"}})
	s, _ := newSession(t, page)
	catalog := NewCatalogPage(s)
	product := &models.ProductEntity{Name: "Red Duck", SKU: "RD004"}

	form, err := catalog.EditEntry(product, -1)
	require.NoError(t, err)
	assert.Equal(t, "17", product.ID)
	assert.Equal(t, "17", form.EntityID())
	assert.Equal(t, "Edit Product: Red Duck", form.Header())
	assert.Contains(t, page.Actions(), "click #content form tbody tr:nth-child(4) a.btn")
}

func TestGeozoneTableEntryDataShouldMatch(t *testing.T) {
	geozone := &models.GeozoneEntity{
		ID:   "5",
		Name: "Zone A",
		Zones: []models.CountryZoneEntity{
			{Country: "AM", City: "TownA"},
			{Country: "AM", City: "TownB"},
		},
	}

	testCases := []struct {
		name    string
		read    []any
		wantErr string
	}{
		{name: "match", read: []any{"5", "Zone A", "2"}},
		{name: "zone count", read: []any{"5", "Zone A", "1"}, wantErr: "number of zones mismatch"},
		{name: "name", read: []any{"5", "Zone B", "2"}, wantErr: "name mismatch"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := fakebrowser.New(baseURL + "/admin/")
			page.EvaluateFn = tableScripts(0, map[int][]any{3: tc.read})
			s, _ := newSession(t, page)

			err := NewGeozonesPage(s).TableEntryDataShouldMatch(geozone)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGeozoneFillFromEntity(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, _ := newSession(t, page)
	form := NewGeozonesAddFormPage(s)
	geozone := &models.GeozoneEntity{Code: "QA1", Name: "Zone", Description: "desc"}

	require.NoError(t, form.FillFromEntity(geozone))
	assert.Equal(t, "QA1", page.Values["#content form input[name='code']"])
	assert.Equal(t, "Zone", page.Values["#content form input[name='name']"])
	assert.Equal(t, "desc", page.Values["#content form input[name='description']"])
	assert.NotContains(t, page.Actions(), "click #content form button[name='add']")
}

func TestRemoveZonesRereadsRows(t *testing.T) {
	rows := [][]any{
		{"1", "AM", "", "TownA"},
		{"2", "AM", "", "TownB"},
		{"3", "BY", "", "Minsk"},
	}
	page := fakebrowser.New(baseURL + "/admin/")
	page.EvaluateFn = func(selector, expr string, arg any) (any, error) {
		out := make([]any, len(rows))
		for i, r := range rows {
			out[i] = r
		}
		return out, nil
	}
	page.OnClick = func(selector string) {
		// deleting drops the row from the table
		for i := range rows {
			if strings.Contains(selector, "nth-child("+strconv.Itoa(i+1)+")") {
				rows = append(rows[:i], rows[i+1:]...)
				return
			}
		}
	}
	s, _ := newSession(t, page)
	form := NewGeozonesAddFormPage(s)

	err := form.RemoveZones(
		models.CountryZoneEntity{Country: "AM", City: "TownA"},
		models.CountryZoneEntity{Country: "BY", City: "Minsk"},
		models.CountryZoneEntity{Country: "GE", City: "Tbilisi"},
	)
	require.NoError(t, err)

	var clicks []string
	for _, a := range page.Actions() {
		if strings.HasPrefix(a, "click ") {
			clicks = append(clicks, a)
		}
	}
	assert.Equal(t, []string{
		"click #content tbody tr:nth-child(1) td.text-end a",
		"click #content tbody tr:nth-child(2) td.text-end a",
	}, clicks)
	assert.Equal(t, [][]any{{"2", "AM", "", "TownB"}}, rows)
}

func TestZoneRowShouldMatch(t *testing.T) {
	texts := [][]string{
		{"7", "Armenia", "", "TownA"},
		{"8", "Armenia", "", "TownB"},
	}
	values := [][]string{
		{"7", "AM", "", "TownA"},
		{"8", "AM", "", "TownB"},
	}

	assert.NoError(t, zoneRowShouldMatch(texts, values, models.CountryZoneEntity{Country: "AM", City: "TownB"}))

	err := zoneRowShouldMatch(texts, values, models.CountryZoneEntity{Country: "AM", City: "TownC"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zones available")

	mismatched := [][]string{{"9", "AM", "", "TownA"}}
	err = zoneRowShouldMatch(texts[:1], mismatched, models.CountryZoneEntity{Country: "AM", City: "TownA"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID value")
}

func TestListingCompareStopsAtFirstMismatch(t *testing.T) {
	s, r := newSession(t, fakebrowser.New(baseURL+"/admin/"))
	p := NewUsersPage(s)

	err := p.compare("user",
		fieldCheck{"username", "qa", "qa"},
		fieldCheck{"email", "a@b", "c@d"},
		fieldCheck{"ID", "1", "1"},
	)
	require.Error(t, err)
	assert.Equal(t, []string{`username matches "qa"`, `email matches "a@b"`}, titles(r))
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, r := newSession(t, page)
	form := NewGeozonesEditFormPage(s, "3")

	require.NoError(t, form.Delete(false))
	assert.Equal(t, []string{"click #content .card-action button[name='delete']"}, page.Actions())
	assert.Equal(t, "Deleting entity", titles(r)[0])
}

func TestSnapshotSkippedWithoutMatcher(t *testing.T) {
	page := fakebrowser.New(baseURL + "/admin/")
	s, _ := newSession(t, page)

	assert.NoError(t, NewLoginPage(s).ShouldMatchSnapshot())
	assert.Empty(t, page.Actions())
}
