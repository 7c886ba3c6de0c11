package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/testutil/fakeoffice"
)

func newClient(t *testing.T, srv *fakeoffice.Server) *Client {
	t.Helper()
	t.Cleanup(ResetSessions)
	c, err := New(context.Background(), Options{
		BaseURL:  srv.URL + "/",
		Username: srv.Username,
		Password: srv.Password,
		Log:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return c
}

func TestCreateAndDeleteGeozone(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	g := models.NewGeozone("SE", "FI")
	require.NoError(t, c.Create(ctx, g))
	require.NotEmpty(t, g.ID, "ID is discovered on the list page")

	records := srv.Records("geo_zones")
	require.Len(t, records, 1)
	assert.Equal(t, g.ID, records[0].ID)
	assert.Equal(t, g.Name, records[0].Fields.Get("name"))
	assert.Equal(t, "FI", records[0].Fields.Get("zones[new_2][country_code]"))
	assert.Empty(t, records[0].Fields.Get("save"))

	require.NoError(t, c.Delete(ctx, g))
	assert.Empty(t, srv.Records("geo_zones"))
}

func TestCreateProductUploadsImages(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)

	dir := t.TempDir()
	var images []string
	for _, name := range []string{"one.png", "two.png"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("\x89PNG fake"), 0o644))
		images = append(images, p)
	}

	p := models.NewProduct(images...)
	p.Price = decimal.RequireFromString("7.5")
	require.NoError(t, c.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)

	records := srv.Records("catalog")
	require.Len(t, records, 1)
	assert.Equal(t, []string{"one.png", "two.png"}, records[0].Files)
	assert.Equal(t, "7.50", records[0].Fields.Get("prices[USD]"))
	assert.Equal(t, []string{"0"}, records[0].Fields["categories[]"])
}

func TestCreateTakesIDFromRedirect(t *testing.T) {
	srv := fakeoffice.New(t)
	srv.RedirectToEdit = true
	c := newClient(t, srv)

	srv.Seed("users", nil)
	u, err := c.CreateAdminUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", u.ID)
	assert.Equal(t, u.Username, srv.Records("users")[1].Fields.Get("username"))
}

func TestCreateReportsErrorNotice(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)
	srv.FailNext("geo_zones", "The code is already in use")

	g := models.NewGeozone()
	err := c.Create(context.Background(), g)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 200, apiErr.StatusCode)
	assert.Equal(t, "The code is already in use", apiErr.Message)
	assert.Empty(t, g.ID)
}

func TestCreateReportsValidationNotice(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)

	err := c.Create(context.Background(), &models.GeozoneEntity{Code: "X"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "must enter a name")
}

func TestSessionsAreCached(t *testing.T) {
	srv := fakeoffice.New(t)
	newClient(t, srv)
	newClient(t, srv)
	assert.Equal(t, 1, srv.Logins())

	ResetSessions()
	newClient(t, srv)
	assert.Equal(t, 2, srv.Logins())
}

func TestLoginFailure(t *testing.T) {
	srv := fakeoffice.New(t)
	t.Cleanup(ResetSessions)

	_, err := New(context.Background(), Options{BaseURL: srv.URL, Username: "admin", Password: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "LOGIN", apiErr.Operation)
	assert.Contains(t, apiErr.Message, "Wrong combination")
}

func TestNetworkError(t *testing.T) {
	srv := fakeoffice.New(t)
	url := srv.URL
	srv.Close()
	t.Cleanup(ResetSessions)

	_, err := New(context.Background(), Options{BaseURL: url, Username: "admin", Password: "secret"})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "LOGIN", netErr.Operation)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestDeleteSkipsEntitiesWithoutID(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)
	before := srv.Requests()

	require.NoError(t, c.Delete(context.Background(), models.NewProduct()))
	assert.Equal(t, before, srv.Requests())
}

func TestDeleteAllIsBestEffort(t *testing.T) {
	srv := fakeoffice.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	kept := models.NewGeozone()
	require.NoError(t, c.Create(ctx, kept))
	missing := models.NewGeozone()
	missing.ID = "999"
	unsaved := models.NewGeozone()

	err := c.DeleteAll(ctx, []models.Entity{missing, unsaved, kept})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete geozone 999")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Empty(t, srv.Records("geo_zones"), "later entities are still deleted")
}
