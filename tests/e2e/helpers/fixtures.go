//go:build e2e

package helpers

import (
	"context"
	"testing"

	"github.com/backoffice-qa/backoffice-e2e/internal/api"
	"github.com/backoffice-qa/backoffice-e2e/internal/fixtures"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/textrepo"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/pages"
)

// Fixtures creates entities through the admin API and deletes them when
// the test ends, failed or not.
type Fixtures struct {
	b    *BrowserHelper
	t    *testing.T
	api  *api.Client
	data *fixtures.Data
	msgs *textrepo.Repository

	handled []models.Entity
}

func NewFixtures(b *BrowserHelper) *Fixtures {
	t := b.t
	t.Helper()
	cfg := b.Config

	client, err := api.FromConfig(context.Background(), cfg, b.Log)
	if err != nil {
		t.Fatalf("failed to open admin API session: %v", err)
	}
	data, err := fixtures.Load(cfg.Path(cfg.Fixtures.File), cfg.Path(cfg.Fixtures.ImagesDir))
	if err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}
	msgs, err := textrepo.Load(cfg.Path(cfg.Messages.File))
	if err != nil {
		t.Fatalf("failed to load messages: %v", err)
	}

	f := &Fixtures{b: b, t: t, api: client, data: data, msgs: msgs}
	t.Cleanup(f.deleteHandled)
	return f
}

func (f *Fixtures) Data() *fixtures.Data { return f.data }

// Message returns the catalog entry at "Section Key".
func (f *Fixtures) Message(path string) textrepo.Message {
	f.t.Helper()
	m, err := f.msgs.Get(path)
	if err != nil {
		f.t.Fatalf("unknown message %q: %v", path, err)
	}
	return m
}

// Handle schedules e for deletion when the test ends. Entities created
// through the UI are handled once their ID is known.
func (f *Fixtures) Handle(entities ...models.Entity) {
	f.handled = append(f.handled, entities...)
}

func (f *Fixtures) deleteHandled() {
	if len(f.handled) == 0 {
		return
	}
	if err := f.api.DeleteAll(context.Background(), f.handled); err != nil {
		f.t.Errorf("failed to delete test entities: %v", err)
	}
}

func (f *Fixtures) create(e models.Entity) {
	f.t.Helper()
	if err := createHandled(context.Background(), f.api, e, f.Handle); err != nil {
		f.t.Fatalf("failed to create %s: %v", e.EntityType(), err)
	}
}

// Geozone creates a geozone with a zone per country, the fixture
// countries when none are given.
func (f *Fixtures) Geozone(countries ...string) *models.GeozoneEntity {
	if len(countries) == 0 {
		countries = f.data.Geozones.Countries
	}
	g := models.NewGeozone(countries...)
	f.create(g)
	return g
}

// Product creates a product carrying the fixture images.
func (f *Fixtures) Product() *models.ProductEntity {
	p := models.NewProduct(f.data.ImagePaths()...)
	f.create(p)
	return p
}

// AdminUser creates a fresh admin account.
func (f *Fixtures) AdminUser() *models.UserEntity {
	f.t.Helper()
	u, err := f.api.CreateAdminUser(context.Background())
	if err != nil {
		f.t.Fatalf("failed to create admin user: %v", err)
	}
	f.Handle(u)
	return u
}

// AdminCategoryPage opens c from the dashboard and checks that the
// page loaded as the expected page object type.
func AdminCategoryPage[T pages.CategoryView](t *testing.T, main *pages.MainPage, c pages.Category) T {
	t.Helper()
	view, err := main.ChangeCategory(c)
	if err != nil {
		t.Fatalf("failed to open %s: %v", c, err)
	}
	page, ok := view.(T)
	if !ok {
		t.Fatalf("%s opened as %T", c, view)
	}
	if err := page.VerifyPage(); err != nil {
		t.Fatalf("%s did not load: %v", c, err)
	}
	return page
}
